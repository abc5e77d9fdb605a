package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/roffe/canbridge/pkg/frame"
	"github.com/roffe/canbridge/pkg/rxtable"
	"github.com/roffe/canbridge/pkg/txlog"
)

const idWidth = 8

var (
	headerColor = color.New(color.Bold).SprintFunc()
	idColor     = color.New(color.FgGreen).SprintfFunc()
)

func dataHeader(first, last string) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("%-*s", idWidth, first))
	for i := 1; i <= frame.MaxDataLen; i++ {
		out.WriteString(fmt.Sprintf("B%-2d", i))
	}
	out.WriteString(last)
	return out.String()
}

func writeData(out *strings.Builder, data []string) {
	for i := 0; i < frame.MaxDataLen; i++ {
		var b string
		if i < len(data) {
			b = data[i]
		}
		out.WriteString(fmt.Sprintf("%-3s", b))
	}
}

func rxHeader() string {
	return dataHeader("ID", "Count")
}

func rxRow(e rxtable.Entry, idFormat func(string, ...interface{}) string) string {
	var out strings.Builder
	out.WriteString(idFormat("%-*s", idWidth, e.ID))
	writeData(&out, e.Data[:])
	out.WriteString(fmt.Sprintf("%d", e.Count))
	return out.String()
}

func txHeader() string {
	return dataHeader("ID", "Timestamp")
}

func txRow(r txlog.Record) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("%-*s", idWidth, r.Frame.ID))
	writeData(&out, r.Frame.Data)
	out.WriteString(r.Timestamp)
	return out.String()
}

func printTable(w io.Writer, entries []rxtable.Entry) {
	fmt.Fprintln(w, headerColor(rxHeader()))
	for _, e := range entries {
		fmt.Fprintln(w, rxRow(e, idColor))
	}
}
