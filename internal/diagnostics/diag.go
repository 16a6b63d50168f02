package diagnostics

import (
	"log"

	"github.com/cardaba/tdesktop/internal/lexer/token"
)

type Kind int

const (
	PARSE_ERROR Kind = iota
	CYCLIC_IMPORT_ERROR
	CYCLIC_REFERENCE_ERROR
	DUPLICATE_DECLARATION_ERROR
	RESERVED_NAME_ERROR
	UNDEFINED_NAME_ERROR
	UNDEFINED_COLOR_ERROR
	TYPE_MISMATCH_ERROR
	MISSING_FIELD_ERROR
	ASSET_NOT_FOUND_ERROR
	MODIFIER_INCOMPATIBLE_ERROR
)

func (kind Kind) String() string {
	switch kind {
	case PARSE_ERROR:
		return "parse error"
	case CYCLIC_IMPORT_ERROR:
		return "cyclic import"
	case CYCLIC_REFERENCE_ERROR:
		return "cyclic reference"
	case DUPLICATE_DECLARATION_ERROR:
		return "duplicate declaration"
	case RESERVED_NAME_ERROR:
		return "reserved name"
	case UNDEFINED_NAME_ERROR:
		return "undefined name"
	case UNDEFINED_COLOR_ERROR:
		return "undefined color"
	case TYPE_MISMATCH_ERROR:
		return "type mismatch"
	case MISSING_FIELD_ERROR:
		return "missing field"
	case ASSET_NOT_FOUND_ERROR:
		return "asset not found"
	case MODIFIER_INCOMPATIBLE_ERROR:
		return "incompatible modifier"
	default:
		log.Fatalf("String() method not defined for the following diagnostic kind '%d'", kind)
	}
	return ""
}

type Diag struct {
	Kind    Kind
	Pos     token.Pos
	Message string

	// Caret-annotated source excerpt, prerendered by the reporter
	// when it still holds the file text. Empty when no source is
	// available (e.g. cross-file graph errors).
	Snippet string
}
