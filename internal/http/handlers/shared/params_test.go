package shared

import (
	"errors"
	"testing"

	"github.com/nearshelf/internal/service"
)

func TestParamParser(t *testing.T) {
	var parser ParamParser
	lat := parser.Float("lat", " -28.64 ")
	limit := parser.Int("limit", "10")
	inStock := parser.Bool("inStock", "false")
	missing := parser.Float("lng", "")
	if err := parser.Err(); err != nil {
		t.Fatalf("valid params should parse, got %v", err)
	}
	if lat == nil || *lat != -28.64 || limit == nil || *limit != 10 || inStock == nil || *inStock {
		t.Fatalf("unexpected parsed values: %v %v %v", lat, limit, inStock)
	}
	if missing != nil {
		t.Fatalf("empty param should be nil")
	}
}

func TestParamParserCollectsErrors(t *testing.T) {
	var parser ParamParser
	parser.Float("radius", "far")
	parser.Int("limit", "1.5")
	parser.Bool("inStock", "maybe")
	parser.ID("id", "0")

	err := parser.Err()
	if !errors.Is(err, service.ErrInvalidParams) {
		t.Fatalf("want ErrInvalidParams got %v", err)
	}
	var validationErr *service.ValidationError
	if !errors.As(err, &validationErr) || len(validationErr.Fields) != 4 {
		t.Fatalf("want 4 field errors got %+v", validationErr)
	}
	want := []string{"radius", "limit", "inStock", "id"}
	for idx, field := range want {
		if validationErr.Fields[idx].Field != field {
			t.Fatalf("field %d want %s got %s", idx, field, validationErr.Fields[idx].Field)
		}
	}
}
