package emit

import (
	"fmt"
	"strings"
)

// quote renders s as a double-quoted Lua string literal.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03d`, c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// returnString renders `return "s"`.
func returnString(s string) string {
	return "return " + quote(s)
}

// returnList renders `return {"a","b"}`.
func returnList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = quote(item)
	}
	return "return {" + strings.Join(quoted, ",") + "}"
}

// returnSet renders `return {["a"]=true,["b"]=true}`.
func returnSet(items []string) string {
	entries := make([]string, len(items))
	for i, item := range items {
		entries[i] = "[" + quote(item) + "]=true"
	}
	return "return {" + strings.Join(entries, ",") + "}"
}
