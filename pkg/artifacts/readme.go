package artifacts

import (
	"fmt"
	"strings"

	"github.com/openbrine/brine/pkg/brinefile"
)

// RenderReadme builds the README body: a header naming the role or
// element, the description in emphasis, and the optional %readme text
// verbatim.
func RenderReadme(doc *brinefile.Document) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**%s**\n====\n", doc.Name)
	fmt.Fprintf(&b, "*%s*\n", strings.Join(doc.Description, "\n"))

	if len(doc.Readme) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(doc.Readme, "\n"))
		b.WriteString("\n")
	}

	b.WriteString("\ncreated with a little help from [Brine](https://github.com/openbrine/brine)\n")
	return b.String()
}
