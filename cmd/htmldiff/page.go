package main

import (
	"fmt"
	"html"
	"strings"

	flag "github.com/spf13/pflag"
)

const pageStyle = `ins.diffins, ins.diffmod { background: #d4f7d4; text-decoration: none; }
del.diffdel, del.diffmod { background: #f7d4d4; }
ins.mod { background: #fff3b0; text-decoration: none; }`

// wrapPage embeds a diff fragment in a standalone HTML document.
func wrapPage(title, body string) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&sb, "<style>\n%s\n</style>\n", pageStyle)
	sb.WriteString("</head>\n<body>\n")
	sb.WriteString(body)
	sb.WriteString("\n</body>\n</html>")
	return sb.String()
}

// pageTitle names the compared inputs.
func pageTitle(fs *flag.FlagSet, stdinMode bool) string {
	if stdinMode {
		return "stdin → " + fs.Arg(0)
	}
	return fs.Arg(0) + " → " + fs.Arg(1)
}
