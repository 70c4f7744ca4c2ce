// Package lang maps file names to the languages sloclass understands.
package lang

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/pingcap/errors"

	"github.com/gubarz/sloclass/internal/source"
)

// ErrUnknownLanguage is returned when no language matches a path or name.
var ErrUnknownLanguage = errors.New("could not determine language")

// Language is a source language.
type Language string

const (
	C            Language = "c"
	CPlusPlus    Language = "c++"
	FortranFixed Language = "fortran-fixed"
	FortranFree  Language = "fortran-free"
	Asm          Language = "asm"
)

var extensions = map[string]Language{
	".c": C,
	".h": C,

	".cc":  CPlusPlus,
	".cpp": CPlusPlus,
	".cxx": CPlusPlus,
	".c++": CPlusPlus,
	".hh":  CPlusPlus,
	".hpp": CPlusPlus,
	".hxx": CPlusPlus,
	".h++": CPlusPlus,
	".inc": CPlusPlus,
	".cu":  CPlusPlus,
	".cuh": CPlusPlus,

	".f":   FortranFixed,
	".for": FortranFixed,
	".ftn": FortranFixed,
	".f77": FortranFixed,
	".fpp": FortranFixed,

	".f90": FortranFree,
	".f95": FortranFree,
	".f03": FortranFree,
	".f08": FortranFree,

	".s":   Asm,
	".asm": Asm,
}

// Detect returns the language of path from its extension. Upper-case
// extensions map like their lower-case forms; ".S" is preprocessed
// assembly.
func Detect(path string) (Language, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if l, ok := extensions[ext]; ok {
		return l, nil
	}
	return "", errors.Annotatef(ErrUnknownLanguage, "%s", path)
}

// Parse parses a language name as given on the command line.
func Parse(name string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(name)))
	switch l {
	case C, CPlusPlus, FortranFixed, FortranFree, Asm:
		return l, nil
	case "cpp", "cxx":
		return CPlusPlus, nil
	case "fortran":
		return FortranFixed, nil
	}
	return "", errors.Annotatef(ErrUnknownLanguage, "unknown language name %q", name)
}

// Dialect returns the cleaning rules used for l. Free-form Fortran goes
// through the fixed-form rules.
func (l Language) Dialect() source.Dialect {
	switch l {
	case FortranFixed, FortranFree:
		return source.DialectFortran
	case Asm:
		return source.DialectAsm
	default:
		return source.DialectC
	}
}

// Names lists the accepted language names in sorted order.
func Names() []string {
	names := []string{string(C), string(CPlusPlus), string(FortranFixed), string(FortranFree), string(Asm)}
	sort.Strings(names)
	return names
}

// IsUnknown reports whether err says that no language could be determined.
func IsUnknown(err error) bool {
	return errors.Cause(err) == ErrUnknownLanguage
}
