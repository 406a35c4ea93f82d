package main

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tendant/simple-doc/pkg/simpledoc"
	"github.com/tendant/simple-doc/pkg/simpledoc/config"
)

const usage = `usage: docs <command> [arguments]

Commands:
  put <uri> <file>              store a file under uri
  get <uri> [file]              print a document, or save it to a file
  range <uri> <offset> <length> print a byte range of a document
  meta <uri>                    print a document's metadata document
  rm <uri>                      remove a document

Documents land under ./data/docs unless DOC_STORE_URL selects another
backend (file:///path, s3://bucket, postgres://..., sqlite:///path.db).`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load(
		config.WithFilesystemStore("", "./data/docs"),
		config.WithDefaultStore("fs"),
		config.WithEnv(),
	)
	if err != nil {
		slog.Error("Failed to load configuration", "err", err)
		os.Exit(1)
	}

	svc, err := cfg.BuildService()
	if err != nil {
		slog.Error("Failed to build document service", "err", err)
		os.Exit(1)
	}

	if err := run(context.Background(), svc, os.Args[1], os.Args[2:]); err != nil {
		slog.Error("Command failed", "command", os.Args[1], "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, svc simpledoc.Service, command string, args []string) error {
	switch command {
	case "put":
		if len(args) != 2 {
			return fmt.Errorf("usage: docs put <uri> <file>")
		}
		return put(ctx, svc, args[0], args[1])

	case "get":
		if len(args) != 1 && len(args) != 2 {
			return fmt.Errorf("usage: docs get <uri> [file]")
		}
		target := ""
		if len(args) == 2 {
			target = args[1]
		}
		return get(ctx, svc, args[0], target)

	case "range":
		if len(args) != 3 {
			return fmt.Errorf("usage: docs range <uri> <offset> <length>")
		}
		offset, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid offset %q: %w", args[1], err)
		}
		length, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid length %q: %w", args[2], err)
		}
		return readRange(ctx, svc, args[0], offset, length)

	case "meta":
		if len(args) != 1 {
			return fmt.Errorf("usage: docs meta <uri>")
		}
		return meta(ctx, svc, args[0])

	case "rm":
		if len(args) != 1 {
			return fmt.Errorf("usage: docs rm <uri>")
		}
		return svc.Delete(ctx, simpledoc.NewDocID(args[0]))

	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func put(ctx context.Context, svc simpledoc.Service, uri, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	id := simpledoc.NewDocID(uri)
	if mt := mime.TypeByExtension(filepath.Ext(file)); mt != "" {
		id = id.WithMimetype(mt)
	}

	if err := simpledoc.WriteBytes(ctx, svc, id, data); err != nil {
		return err
	}

	fmt.Printf("stored %s (%d bytes)\n", uri, len(data))
	return nil
}

func get(ctx context.Context, svc simpledoc.Service, uri, target string) error {
	data, err := simpledoc.ReadBytes(ctx, svc, simpledoc.NewDocID(uri))
	if err != nil {
		return err
	}

	if target == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(target, data, 0644)
}

func readRange(ctx context.Context, svc simpledoc.Service, uri string, offset, length int64) error {
	data, err := simpledoc.ReadBytesRange(ctx, svc, simpledoc.NewDocID(uri), offset, length)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func meta(ctx context.Context, svc simpledoc.Service, uri string) error {
	h, err := simpledoc.ReadMetadataNode(ctx, svc, simpledoc.NewDocID(uri))
	if err != nil {
		return err
	}

	buf, err := h.ToBuffer()
	if err != nil {
		return err
	}
	fmt.Println(string(buf))
	return nil
}
