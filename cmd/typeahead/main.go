// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main runs typeahead: inline word completion with a ghost-text
preview and a clickable suggestion list.

typeahead keeps one input session per process. Every keystroke mutates the
session's buffer, the word under the cursor is ranked against the
vocabulary by bounded edit distance, and the best match becomes the ghost
prediction drawn dimmed after the cursor.

# Usage

Serve a renderer over msgpack on stdin/stdout:

	typeahead --data words.txt

Try it in the terminal:

	typeahead tui --data words.txt

Replay typed lines for debugging:

	typeahead cli --data data/ -d

The word list may be a .txt file with one word per line, a .csv file whose
first column holds the words, a single dict_NNNN.bin chunk or a directory
of them. With --watch the list is reloaded whenever it changes on disk.

# Configuration

The config file is created with defaults on first run:

	[engine]
	max_cost = 2
	limit = 5
	prefix_only = false
	cache_size = 256

	[session]
	accept_keys = ["tab"]

	[vocab]
	path = ""
	watch = false

Flags given on the command line win over the file.

# IPC Protocol

See package server for the message formats. In short:

	{"id": "1", "ev": "insert", "ch": "c"}

is answered with the whole view:

	{"id": "1", "b": "c", "c": 1, "tok": "c", "g": "cat", "gs": "at", "s": [...], "st": "ready", "t": 35}
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "typeahead"
	gh      = "https://github.com/bastiangx/typeahead"
)

// sigHandler cancels the returned context on interrupt or terminate.
// A second signal exits immediately.
func sigHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx, cancel
}

func main() {
	ctx, cancel := sigHandler()
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
