package main

import (
	"bytes"
	"io"
)

// discardInfo drops "[info]" lines so one-shot commands only print failures.
type discardInfo struct {
	out io.Writer
}

func (d discardInfo) Write(p []byte) (int, error) {
	if bytes.Contains(p, []byte("[info]")) {
		return len(p), nil
	}
	return d.out.Write(p)
}
