package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"textpdf/archive"
	"textpdf/binding"
	"textpdf/common"
	"textpdf/document"
	"textpdf/interp"
	"textpdf/markup"
	"textpdf/sink/html"
	"textpdf/sink/pdf"
	"textpdf/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Format, err = common.ParseOutputFmt(cmd.String("to"))
	if err != nil {
		log.Warn("Unknown output format requested, switching to pdf", zap.Error(err))
		env.Format = common.OutputFmtPdf
	}
	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	if env.DataFile = cmd.String("data"); env.DataFile != "" {
		if env.DataFile, err = filepath.Abs(env.DataFile); err != nil {
			return err
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", env.Format))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process determines the input type (directory, archive with optional path
// inside it, or single template) and processes accordingly.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			return processDir(ctx, head, dst, log)
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			prefix := filepath.ToSlash(strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator)))
			if err := processArchive(ctx, head, prefix, dst, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			return nil
		}

		if len(tail) == 0 && isTemplateName(head) {
			res := dirResources{root: filepath.Dir(head)}
			return processTemplate(ctx, res, filepath.Base(head), dst, log)
		}
		return fmt.Errorf("input was not recognized as template (%s)", head)
	}
	return fmt.Errorf("input source was not found (%s)", src)
}

// processDir walks directory tree converting all templates. Failures are
// logged, processing continues with the next template.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) (err error) {
	count, failed := 0, 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	res := dirResources{root: dir}
	err = filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", p), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() || !isTemplateName(p) {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		count++
		if err := processTemplate(ctx, res, filepath.ToSlash(rel), dst, log); err != nil {
			failed++
			log.Error("Unable to process template", zap.String("file", p), zap.Error(err))
		}
		return nil
	})
	if err == nil && failed > 0 {
		err = fmt.Errorf("%d of %d templates failed", failed, count)
	}
	return err
}

// processArchive converts all templates in zip bundle under prefix.
func processArchive(ctx context.Context, file, prefix, dst string, log *zap.Logger) (err error) {
	b, err := archive.Open(file)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, b.Close()) }()

	count, failed := 0, 0
	res := bundleResources{b: b}
	err = b.Walk(prefix, func(name string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !isTemplateName(name) {
			return nil
		}
		count++
		if err := processTemplate(ctx, res, name, dst, log); err != nil {
			failed++
			log.Error("Unable to process template in archive",
				zap.String("archive", file), zap.String("file", name), zap.Error(err))
		}
		return nil
	})
	switch {
	case err != nil:
	case count == 0:
		log.Debug("Nothing to process", zap.String("archive", file), zap.String("prefix", prefix))
	case failed > 0:
		err = fmt.Errorf("%d of %d templates failed", failed, count)
	}
	return err
}

// processTemplate converts single template. "name" is slash separated path
// of the template relative to resources root, it defines output location.
func processTemplate(ctx context.Context, res resources, name, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Conversion starting", zap.String("from", name))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	source, err := res.ReadFile(name)
	if err != nil {
		return fmt.Errorf("unable to read template: %w", err)
	}
	env.Rpt.StoreData("source-"+path.Base(name), source)

	data, err := loadData(ctx, res, name, log)
	if err != nil {
		return err
	}

	outputName = buildOutputPath(name, dst, data, env)
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	out, err := os.Create(outputName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	in, err := render(ctx, out, source, data, imageLoader(res, name), log)
	if err = multierr.Append(err, out.Close()); err != nil {
		// partial output is useless
		if rmErr := os.Remove(outputName); rmErr != nil {
			log.Debug("Unable to remove partial output", zap.String("file", outputName), zap.Error(rmErr))
		}
		return fmt.Errorf("unable to convert template: %w", err)
	}
	if problems := multierr.Errors(in.Warnings()); len(problems) > 0 {
		log.Warn("Template converted with problems", zap.String("template", name), zap.Int("count", len(problems)))
	}

	// Store conversion result for debugging
	if err := env.Rpt.StoreCopy("result"+env.Format.Ext(), outputName); err != nil {
		log.Debug("Unable to store result in report", zap.Error(err))
	}
	return nil
}

// render runs template through interpreter into the sink selected by output
// format.
func render(ctx context.Context, out io.Writer, source []byte, data *binding.Data, loader func(string) ([]byte, error), log *zap.Logger) (*interp.Interpreter, error) {
	env := state.EnvFromContext(ctx)

	var title string
	if data != nil {
		title = data.Title
	}

	var sink document.Sink
	switch env.Format {
	case common.OutputFmtHtml:
		sink = html.New(out, &env.Cfg.Document.HTML, log, html.WithTitle(title))
	default:
		sink = pdf.New(out, &env.Cfg.Document.PDF, log, pdf.WithTitle(title), pdf.WithImageLoader(loader))
	}

	tok, err := markup.NewTokenizer(bytes.NewReader(source))
	if err != nil {
		return nil, err
	}
	// without data values are left blank silently
	var binder *binding.Binder
	if data != nil {
		binder = data.Binder()
		if ce := log.Check(zap.DebugLevel, "Template data"); ce != nil {
			ce.Write(zap.String("values", binder.String()))
		}
	}

	in := interp.New(sink, binder, log)
	return in, in.Run(ctx, tok)
}
