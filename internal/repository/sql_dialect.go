package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// likeEscapeChar LIKE 转义字符，用户输入中的 % 与 _ 按字面匹配
const likeEscapeChar = `\`

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// buildContainsCondition 构建多列“包含”的 OR 条件（列需为小写匹配列），并返回参数数量。
func buildContainsCondition(db *gorm.DB, columns []string) (string, int) {
	return buildContainsConditionByDialect(dbDialectName(db), columns)
}

func buildContainsConditionByDialect(dialect string, columns []string) (string, int) {
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		parts = append(parts, containsExprByDialect(dialect, trimmed))
	}
	if len(parts) == 0 {
		return "", 0
	}
	return "(" + strings.Join(parts, " OR ") + ")", len(parts)
}

func containsExprByDialect(dialect, column string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return fmt.Sprintf("COALESCE(%s, '') ILIKE ? ESCAPE '%s'", column, likeEscapeChar)
	default:
		// 匹配列与参数都已在 Go 侧小写化，sqlite 无需 LOWER
		return fmt.Sprintf("COALESCE(%s, '') LIKE ? ESCAPE '%s'", column, likeEscapeChar)
	}
}

// containsPattern 生成包含匹配的 LIKE 参数（转义通配符并转小写）。
func containsPattern(term string) string {
	replacer := strings.NewReplacer(
		likeEscapeChar, likeEscapeChar+likeEscapeChar,
		"%", likeEscapeChar+"%",
		"_", likeEscapeChar+"_",
	)
	return "%" + replacer.Replace(strings.ToLower(term)) + "%"
}

// repeatArgs 生成重复的参数列表。
func repeatArgs(value interface{}, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, value)
	}
	return args
}
