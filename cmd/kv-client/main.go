// Command kv-client is a thin launcher around package client: it dials
// a server, issues one command built from flags, and prints the
// response. Argument parsing is explicitly out of scope for the core
// (spec.md §1); this wrapper exists only so the module is runnable.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/sunnywhy/kv/client"
	"github.com/sunnywhy/kv/internal/wire"
)

func main() {
	addr := flag.String("addr", "localhost:4000", "server address")
	domain := flag.String("domain", "kvserver.acme.inc", "expected server DNS name")
	serverCAFile := flag.String("server-ca", "", "PEM server-CA bundle, in addition to OS roots")
	cmd := flag.String("cmd", "hget", "hget|hset|hdel|hexist|hgetall")
	table := flag.String("table", "t", "table name")
	key := flag.String("key", "", "key")
	value := flag.String("value", "", "value (string), for hset")
	flag.Parse()

	var opts []client.Option
	if *serverCAFile != "" {
		pem, err := os.ReadFile(*serverCAFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "reading server-ca file:", err)
			os.Exit(1)
		}
		opts = append(opts, client.WithServerCA(pem))
	}

	ctx := context.Background()
	c, err := client.Dial(ctx, *addr, *domain, opts...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dial:", err)
		os.Exit(1)
	}
	defer c.Close()

	req, err := buildRequest(*cmd, *table, *key, *value)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	resp, err := c.Call(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "call:", err)
		os.Exit(1)
	}

	fmt.Printf("status=%d message=%q values=%v pairs=%v\n", resp.Status, resp.Message, resp.Values, resp.Pairs)
}

func buildRequest(cmd, table, key, value string) (wire.CommandRequest, error) {
	switch cmd {
	case "hget":
		return wire.NewHget(table, key), nil
	case "hset":
		return wire.NewHset(table, key, wire.NewStringValue(value)), nil
	case "hdel":
		return wire.NewHdel(table, key), nil
	case "hexist":
		return wire.NewHexist(table, key), nil
	case "hgetall":
		return wire.NewHgetAll(table), nil
	default:
		return wire.CommandRequest{}, fmt.Errorf("unknown -cmd %q", cmd)
	}
}
