package client

import (
	"strings"

	"github.com/cloo-solutions/folio/internal/domain"
)

// lensFlag is a pflag.Value that only accepts known lenses.
type lensFlag struct {
	lens domain.Lens
}

func newLensFlag() *lensFlag {
	return &lensFlag{lens: domain.LensNone}
}

func (f *lensFlag) String() string {
	return string(f.lens)
}

func (f *lensFlag) Set(s string) error {
	l, err := domain.ParseLens(s)
	if err != nil {
		return err
	}
	f.lens = l
	return nil
}

func (f *lensFlag) Type() string {
	return "lens"
}

func lensUsage() string {
	names := make([]string, 0, len(domain.Lenses()))
	for _, l := range domain.Lenses() {
		names = append(names, string(l))
	}
	return "Audience lens (" + strings.Join(names, ", ") + ")"
}
