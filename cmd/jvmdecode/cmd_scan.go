package main

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/dhamidi/jvmdecode/bytecode"
	"github.com/dhamidi/jvmdecode/classfile"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

func newScanCmd() *cobra.Command {
	var timeout time.Duration
	var jobs int
	var code bool

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Decode every class in a directory, jar, or zip file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := scanOptions{timeout: timeout, jobs: jobs, code: code}
			report, err := runScan(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			report.print(cmd.OutOrStdout())
			if report.failed > 0 {
				return fmt.Errorf("%d of %d classes failed to decode", report.failed, report.total)
			}
			return nil
		},
	}

	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 10*time.Second, "timeout per file")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "number of files decoded concurrently")
	cmd.Flags().BoolVarP(&code, "code", "c", false, "also disassemble every method")

	return cmd
}

type scanOptions struct {
	timeout time.Duration
	jobs    int
	code    bool
}

// scanItem is one class file to decode, either on disk or inside an
// archive.
type scanItem struct {
	name string
	read func() ([]byte, error)
}

type scanReport struct {
	total   int
	decoded int
	failed  int
	methods int
	errs    error
}

func (r *scanReport) print(w io.Writer) {
	fmt.Fprintf(w, "\n=== SCAN COMPLETE ===\n")
	fmt.Fprintf(w, "Classes found: %d\n", r.total)
	fmt.Fprintf(w, "Decoded: %d (%d methods)\n", r.decoded, r.methods)
	fmt.Fprintf(w, "Errors: %d\n", r.failed)
	for _, err := range multierr.Errors(r.errs) {
		fmt.Fprintf(w, "  - %v\n", err)
	}
}

func runScan(ctx context.Context, path string, opts scanOptions) (*scanReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	var items []scanItem
	var collectErr error
	if info.IsDir() {
		items, collectErr = collectDirectory(path)
	} else {
		switch ext := filepath.Ext(path); ext {
		case ".jar", ".zip":
			items, collectErr = collectZipFile(path)
		case ".class":
			items = []scanItem{fileItem(path)}
		default:
			return nil, fmt.Errorf("unsupported file type: %s", ext)
		}
	}

	log.Infof("found %d class files to scan", len(items))
	report := scanItems(ctx, items, opts)
	report.errs = multierr.Append(collectErr, report.errs)
	report.failed += len(multierr.Errors(collectErr))
	return report, nil
}

// scanItems decodes items on at most opts.jobs goroutines.
func scanItems(ctx context.Context, items []scanItem, opts scanOptions) *scanReport {
	jobs := opts.jobs
	if jobs < 1 {
		jobs = 1
	}

	report := &scanReport{total: len(items)}
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, jobs)

	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			methods, err := scanOne(ctx, item, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.failed++
				report.errs = multierr.Append(report.errs, err)
				log.Errorf("[%d/%d] %v", i+1, len(items), err)
				return
			}
			report.decoded++
			report.methods += methods
			log.Infof("[%d/%d] %s (%d methods)", i+1, len(items), item.name, methods)
		}()
	}
	wg.Wait()
	return report
}

// scanOne decodes a single item within the per-file timeout. Decoding
// is not interruptible, so a timed-out decode keeps running in the
// background until it finishes.
func scanOne(ctx context.Context, item scanItem, opts scanOptions) (int, error) {
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	type result struct {
		methods int
		err     error
	}
	done := make(chan result, 1)
	go func() {
		methods, err := decodeItem(item, opts.code)
		done <- result{methods, err}
	}()

	select {
	case r := <-done:
		return r.methods, r.err
	case <-ctx.Done():
		return 0, fmt.Errorf("timeout decoding %s: %w", item.name, ctx.Err())
	}
}

func decodeItem(item scanItem, code bool) (int, error) {
	data, err := item.read()
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", item.name, err)
	}
	cf, err := classfile.Decode(data)
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", item.name, err)
	}
	if code {
		for i := range cf.Methods {
			m := &cf.Methods[i]
			attr := m.GetCodeAttribute()
			if attr == nil {
				continue
			}
			if _, err := bytecode.Disassemble(attr.Code); err != nil {
				return 0, fmt.Errorf("disassemble %s.%s%s in %s: %w", cf.ClassName(),
					m.Name(cf.ConstantPool), m.Descriptor(cf.ConstantPool), item.name, err)
			}
		}
	}
	return len(cf.Methods), nil
}

func fileItem(path string) scanItem {
	return scanItem{name: path, read: func() ([]byte, error) { return os.ReadFile(path) }}
}

func collectDirectory(path string) ([]scanItem, error) {
	var items []scanItem
	var errs error

	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("walk %s: %w", p, err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(p) {
		case ".class":
			items = append(items, fileItem(p))
		case ".jar":
			jarItems, err := collectZipFile(p)
			items = append(items, jarItems...)
			errs = multierr.Append(errs, err)
		}
		return nil
	})
	errs = multierr.Append(errs, err)
	return items, errs
}

func collectZipFile(path string) ([]scanItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", path, err)
	}
	return collectZipData(path, data)
}

// collectZipData lists the classes of an archive, descending into jars
// nested inside it.
func collectZipData(name string, data []byte) ([]scanItem, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip %s: %w", name, err)
	}

	var items []scanItem
	var errs error
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		entryName := name + "!" + f.Name
		switch filepath.Ext(f.Name) {
		case ".class":
			items = append(items, scanItem{name: entryName, read: zipEntryReader(f)})
		case ".jar":
			nested, err := zipEntryReader(f)()
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("read jar %s: %w", entryName, err))
				continue
			}
			nestedItems, err := collectZipData(entryName, nested)
			items = append(items, nestedItems...)
			errs = multierr.Append(errs, err)
		}
	}
	return items, errs
}

func zipEntryReader(f *zip.File) func() ([]byte, error) {
	return func() ([]byte, error) {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
}
