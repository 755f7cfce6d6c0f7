package importer

import (
	"context"
	"errors"

	"github.com/alexanderramin/wisync/internal/domain"
)

const parseOp = "parse structured plan"

// Parser reads plan text that is already a structured YAML or JSON
// document. It satisfies the same contract as the LLM-backed parser.
type Parser struct{}

// NewParser creates a structured plan Parser.
func NewParser() *Parser { return &Parser{} }

// Parse decodes, validates and converts text. Every failure is a parse error.
func (Parser) Parse(_ context.Context, text string) (*domain.Hierarchy, error) {
	doc, err := ParsePlanDocument(text)
	if err != nil {
		return nil, domain.NewError(domain.KindParse, parseOp, err)
	}
	if errs := ValidatePlanDocument(doc); len(errs) > 0 {
		return nil, domain.NewError(domain.KindParse, parseOp, errors.Join(errs...))
	}
	return Convert(doc), nil
}
