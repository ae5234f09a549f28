package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/sirupsen/logrus"

	"github.com/gimmeDG/UnrealEngine5-mcp/internal/logging"
	"github.com/gimmeDG/UnrealEngine5-mcp/pkg/types"
)

// Parser extracts catalog entries from Python declaration stubs
type Parser struct {
	logger logrus.FieldLogger
}

// Option configures a Parser
type Option func(*Parser)

// WithLogger sets the logger used for pipeline progress
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// New creates a new Parser instance
func New(opts ...Option) *Parser {
	p := &Parser{logger: logging.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.Component(p.logger, "parser")
	return p
}

// ParseFile reads and parses a declaration stub from disk
func (p *Parser) ParseFile(ctx context.Context, filePath string) (*types.ParseResult, error) {
	content, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", types.ErrSourceNotFound, filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrSourceNotFound, filePath, err)
	}

	p.logger.WithField("path", filePath).Info("Parsing stub file")
	return p.Parse(ctx, filePath, content)
}

// Parse extracts classes, functions and methods from stub content. name is
// only used in error messages. Any syntax error is fatal.
func (p *Parser) Parse(ctx context.Context, name string, content []byte) (*types.ParseResult, error) {
	p.logger.Debug("Sanitizing stub content")
	src := Sanitize(normalizeNewlines(content))

	ts := sitter.NewParser()
	defer ts.Close()
	ts.SetLanguage(python.GetLanguage())

	p.logger.Debug("Building syntax tree")
	tree, err := ts.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(name, root, src)
	}

	p.logger.Debug("Extracting API information")
	l := &lowerer{src: src}
	result := extract(l.module(root))

	for _, injected := range injectMissing(result) {
		p.logger.WithField("class", injected).Info("Injecting missing class")
	}

	p.logger.WithFields(logrus.Fields{
		"classes":   result.ClassCount(),
		"functions": result.FunctionCount(),
	}).Info("Parsed stub file")

	return result, nil
}

// syntaxError locates the first error or missing node under root
func syntaxError(name string, root *sitter.Node, src []byte) *types.ParseError {
	n := firstErrorNode(root)
	if n == nil {
		n = root
	}

	pos := position(n)
	msg := "invalid syntax"
	if n.IsMissing() {
		msg = fmt.Sprintf("missing %s", n.Type())
	}

	return &types.ParseError{
		File:    name,
		Line:    pos.Line,
		Column:  pos.Column,
		Snippet: sourceLine(src, pos.Line),
		Message: msg,
	}
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstErrorNode(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}

// sourceLine returns the 1-based line of src, trimmed
func sourceLine(src []byte, line int) string {
	for i := 1; i < line; i++ {
		nl := bytes.IndexByte(src, '\n')
		if nl < 0 {
			return ""
		}
		src = src[nl+1:]
	}
	if nl := bytes.IndexByte(src, '\n'); nl >= 0 {
		src = src[:nl]
	}
	return strings.TrimSpace(string(src))
}
