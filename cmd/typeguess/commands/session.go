package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/panyam/typeguess/binder"
	"github.com/panyam/typeguess/guess"
	"github.com/panyam/typeguess/javasrc"
	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
	"github.com/sirupsen/logrus"
)

// session is one parsed and bound source file with an engine over it.
type session struct {
	src    *javasrc.Source
	binder *binder.Binder
	engine *guess.Engine
	modern bool
}

// openSession loads the universe and, when --file is set, parses and binds that file.
// Without a file the engine runs over an empty compilation unit, which is enough for
// commands that only need types.
func openSession(ctx context.Context, needFile bool) (*session, error) {
	if needFile && filePath == "" {
		return nil, fmt.Errorf("no source file, use --file")
	}
	modern, err := AllowModernKinds(settings.Source)
	if err != nil {
		return nil, err
	}

	u, err := typesys.JDK()
	if err != nil {
		return nil, err
	}
	for _, path := range settings.Universe {
		if err := u.LoadFile(path); err != nil {
			return nil, fmt.Errorf("load universe %s: %w", path, err)
		}
	}

	parseOpts := []javasrc.Option{javasrc.WithLogger(frontendLogger())}
	var src *javasrc.Source
	if filePath != "" {
		src, err = javasrc.ParseFile(ctx, filePath, parseOpts...)
	} else {
		src, err = javasrc.ParseSource(ctx, []byte{}, parseOpts...)
	}
	if err != nil {
		return nil, err
	}
	if src.SyntaxErrors > 0 {
		slog.Warn("Source has syntax errors", "file", filePath, "count", src.SyntaxErrors)
	}

	logger := slog.Default()
	b := binder.New(src.Tree, u, binder.WithLogger(logger))
	if b.HasErrors() {
		b.WriteErrors(os.Stderr)
	}
	return &session{
		src:    src,
		binder: b,
		engine: guess.New(b, guess.WithLogger(logger)),
		modern: modern,
	}, nil
}

// frontendLogger gives the tree-sitter frontend a logrus logger at the configured level.
func frontendLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	level, _ := ParseLogLevel(settings.LogLevel)
	switch {
	case level <= slog.LevelDebug:
		l.SetLevel(logrus.DebugLevel)
	case level <= slog.LevelInfo:
		l.SetLevel(logrus.InfoLevel)
	case level <= slog.LevelWarn:
		l.SetLevel(logrus.WarnLevel)
	case level <= slog.LevelError:
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.PanicLevel)
	}
	return l
}

// nodeAt returns the innermost node covering offset.
func (s *session) nodeAt(offset int) (syntax.Ref, error) {
	if offset < 0 || offset > len(s.src.Text) {
		return syntax.Ref{}, fmt.Errorf("offset %d outside source of %d bytes", offset, len(s.src.Text))
	}
	n := s.src.Tree.NodeAt(offset)
	if n.IsNil() {
		return n, fmt.Errorf("no node at offset %d", offset)
	}
	return n, nil
}

// parseType reads a type written in source form against the bound universe.
func (s *session) parseType(text string) (*typesys.Type, error) {
	return s.binder.Universe().Parse(text, nil)
}
