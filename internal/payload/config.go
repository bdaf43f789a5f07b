package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// Language is the language a config snippet is written in.
type Language int

const (
	// Lua snippets are emitted as-is.
	Lua Language = iota
	// Vim script snippets are wrapped into a vim.cmd call.
	Vim
)

func (l Language) String() string {
	switch l {
	case Lua:
		return "lua"
	case Vim:
		return "vim"
	default:
		return fmt.Sprintf("Language(%d)", int(l))
	}
}

// ParseLanguage maps the document spelling of a language. The empty string
// means Lua.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(s) {
	case "", "lua":
		return Lua, nil
	case "vim":
		return Vim, nil
	default:
		return Lua, fmt.Errorf("unknown language %q: must be 'lua' or 'vim'", s)
	}
}

// ConfigBlock is one configuration snippet. A bare source string in the
// document becomes a Lua block without args.
type ConfigBlock struct {
	Language Language
	Code     string
	Args     Args
}

// Code returns a Lua block holding src.
func Code(src string) ConfigBlock {
	return ConfigBlock{Language: Lua, Code: src}
}

// ArgsKind classifies a structured argument value.
type ArgsKind int

const (
	ArgsAbsent ArgsKind = iota
	ArgsScalar
	ArgsSequence
	ArgsKeyed
)

// Args is a structured argument value held as canonical JSON text. The zero
// value is an absent value.
type Args struct {
	raw string
}

// NewArgs wraps canonical JSON text. Loaders are responsible for
// canonicalization, so equal values always compare equal as text.
func NewArgs(canonical []byte) Args {
	return Args{raw: strings.TrimSpace(string(canonical))}
}

// Kind reports the shape of the value.
func (a Args) Kind() ArgsKind {
	if a.raw == "" {
		return ArgsAbsent
	}
	switch a.raw[0] {
	case '{':
		return ArgsKeyed
	case '[':
		return ArgsSequence
	default:
		return ArgsScalar
	}
}

// IsNull reports whether the value is the JSON null literal.
func (a Args) IsNull() bool {
	return a.raw == "null"
}

// JSON returns the canonical JSON text, or "" when absent.
func (a Args) JSON() string {
	return a.raw
}

// ParseArgs turns raw JSON into Args. Objects and arrays are brought into
// their RFC 8785 canonical form so that equal values render identically;
// scalars are only compacted since the canonicalizer works on containers.
// Empty input yields absent Args.
func ParseArgs(raw []byte) (Args, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Args{}, nil
	}
	switch trimmed[0] {
	case '{', '[':
		canonical, err := jsoncanonicalizer.Transform(trimmed)
		if err != nil {
			return Args{}, err
		}
		return NewArgs(canonical), nil
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return Args{}, err
		}
		return NewArgs(buf.Bytes()), nil
	}
}
