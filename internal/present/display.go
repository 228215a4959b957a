package present

import (
	"strconv"
	"strings"

	"github.com/wisplang/wisp/internal/types"
)

// displayType renders t for hover/summary text, applying the
// infection pretty-printer rule (spec.md §4.5): a Constructor whose
// last argument is a non-trivial EffectRow is shown as `⚡T <row>`
// instead of the raw structural `Name<T, <row>>` form. The structural
// form itself is never lost — NodeView.FinalType still carries it via
// PartialType.Concrete built from the same t — only this display
// string is abbreviated.
func displayType(t types.Type) string {
	if t == nil {
		return "?"
	}
	if c, ok := t.(*types.Constructor); ok && len(c.Args) > 0 {
		if row, ok := c.Args[len(c.Args)-1].(*types.EffectRow); ok && !row.IsEmpty() {
			value := c.Args[:len(c.Args)-1]
			parts := make([]string, len(value))
			for i, a := range value {
				parts[i] = displayType(a)
			}
			return "⚡" + strings.Join(parts, ", ") + " " + displayType(row)
		}
	}
	return t.String()
}

func displayScheme(sch *types.Scheme) string {
	if sch == nil {
		return "?"
	}
	body := displayType(sch.Body)
	if len(sch.Quantified) == 0 {
		return body
	}
	names := make([]string, len(sch.Quantified))
	for i, id := range sch.Quantified {
		names[i] = "'" + quantName(i) + strconv.FormatUint(id, 10)
	}
	return "∀" + strings.Join(names, " ") + ". " + body
}

func quantName(i int) string {
	return string(rune('a' + i%26))
}
