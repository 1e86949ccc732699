package repository

// CandidateFilter 搜索候选商品的过滤条件
type CandidateFilter struct {
	Query    string // 名称/描述/分类 任一包含（忽略大小写）
	Category string // 分类包含（忽略大小写），为空不过滤
	Limit    int    // 最多返回条数，<=0 不限制
}
