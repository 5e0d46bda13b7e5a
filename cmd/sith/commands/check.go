package commands

import (
	"context"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/LaBatata101/python-lsp/display"
	"github.com/LaBatata101/python-lsp/errors"
	"github.com/LaBatata101/python-lsp/logger"
	"github.com/LaBatata101/python-lsp/python"
	"github.com/LaBatata101/python-lsp/python/diagnostic"
)

// CheckCmd reports syntax problems in files and directories
var CheckCmd = &cobra.Command{
	Use:   "check [PATH...]",
	Short: "Report syntax problems in Python files",
	Long: `Parse every given file, and every .py file below the given directories,
and print each problem with the offending source line.

Directories whose path contains an entry of workspace.exclude are skipped.
The command exits non-zero when any problem was found. With --watch it keeps
running and re-checks files as they change.

Examples:
  sith check                 # Check the current directory
  sith check src tests/app.py
  sith check --watch src`,
	RunE: runCheck,
}

var checkWatch bool

// watchDebounce groups the burst of events editors produce when saving.
const watchDebounce = 100 * time.Millisecond

func init() {
	CheckCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "Re-check files when they change")
}

// fileReport is the JSON form of one checked file.
type fileReport struct {
	Path        string          `json:"path"`
	Diagnostics diagnostic.List `json:"diagnostics"`
}

type checkOutput struct {
	Files   []fileReport    `json:"files"`
	Summary display.Summary `json:"summary"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := collectFiles(paths, cfg.Workspace.Exclude)
	if err != nil {
		return err
	}

	c := &checker{
		out:       cmd.OutOrStdout(),
		json:      display.ShouldOutputJSON(cmd),
		verbosity: Verbosity(cmd),
	}
	summary, err := c.run(files)
	if err != nil {
		return err
	}

	if checkWatch {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return c.watch(ctx, paths, cfg.Workspace.Exclude)
	}

	if summary.Diagnostics > 0 {
		return ErrProblemsFound
	}
	return nil
}

// collectFiles expands paths into a sorted, de-duplicated list of files.
// Explicit files are kept whatever their extension; directories contribute
// their .py files.
func collectFiles(paths, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(errors.ErrNotFound, "%s", root)
			}
			return nil, errors.Wrapf(err, "failed to stat %s", root)
		}
		if !info.IsDir() {
			add(filepath.Clean(root))
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && excludedUnder(root, path, exclude) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".py" && !excludedUnder(root, path, exclude) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to walk %s", root)
		}
	}

	sort.Strings(files)
	return files, nil
}

// excludedUnder reports whether any element of path below root matches an
// exclude entry. Entries may be glob patterns.
func excludedUnder(root, path string, exclude []string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	for _, pattern := range exclude {
		for _, part := range parts {
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}

type checker struct {
	out       io.Writer
	json      bool
	verbosity int
}

func (c *checker) checkFile(path string) (fileReport, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileReport{}, "", errors.Wrapf(err, "failed to read %s", path)
	}
	source := string(data)

	start := time.Now()
	_, diags := python.Parse(source)
	if logger.ShouldOutput(c.verbosity, logger.OutputProgress) {
		logger.Infow("Checked",
			logger.FieldFile, path,
			logger.FieldDiagnostics, len(diags),
			logger.FieldDurationMS, time.Since(start).Milliseconds())
	}
	if diags == nil {
		diags = diagnostic.List{}
	}
	return fileReport{Path: path, Diagnostics: diags}, source, nil
}

// run checks files and prints the results. Unreadable files abort the run.
func (c *checker) run(files []string) (display.Summary, error) {
	var (
		summary display.Summary
		reports []fileReport
	)
	for _, path := range files {
		report, source, err := c.checkFile(path)
		if err != nil {
			return summary, err
		}
		summary.Files++
		if n := len(report.Diagnostics); n > 0 {
			summary.FilesFailed++
			summary.Diagnostics += n
		}
		if c.json {
			reports = append(reports, report)
		} else {
			display.RenderDiagnostics(c.out, path, source, report.Diagnostics)
		}
	}

	if c.json {
		if reports == nil {
			reports = []fileReport{}
		}
		return summary, display.OutputJSON(c.out, checkOutput{Files: reports, Summary: summary})
	}
	display.RenderSummary(c.out, summary)
	return summary, nil
}

// watch re-checks changed .py files until ctx is done. New directories below
// the watched roots are picked up as they appear.
func (c *checker) watch(ctx context.Context, paths, exclude []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create fsnotify watcher")
	}
	defer w.Close()

	for _, root := range paths {
		if err := addWatches(w, root, exclude); err != nil {
			return err
		}
	}
	logger.Infow("Watching for changes", logger.FieldCount, len(w.WatchList()))

	pending := make(map[string]bool)
	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatches(w, event.Name, exclude); err != nil {
						logger.Warnw("Failed to watch new directory", logger.FieldFile, event.Name, logger.FieldError, err)
					}
					continue
				}
			}
			// Only directories that passed the exclude list are watched
			if filepath.Ext(event.Name) != ".py" || excludedUnder(filepath.Dir(event.Name), event.Name, exclude) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending[event.Name] = true
				timer.Reset(watchDebounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("File watcher error", logger.FieldError, err)

		case <-timer.C:
			files := make([]string, 0, len(pending))
			for path := range pending {
				if _, err := os.Stat(path); err == nil {
					files = append(files, path)
				}
			}
			pending = make(map[string]bool)
			sort.Strings(files)
			if _, err := c.run(files); err != nil {
				logger.Errorw("Re-check failed", logger.FieldError, err)
			}
		}
	}
}

// addWatches watches root, or every non-excluded directory below it.
// fsnotify does not recurse on its own.
func addWatches(w *fsnotify.Watcher, root string, exclude []string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", root)
	}
	if !info.IsDir() {
		return errors.Wrapf(w.Add(root), "failed to watch %s", root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if path != root && excludedUnder(root, path, exclude) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return errors.Wrapf(err, "failed to watch %s", path)
		}
		return nil
	})
}
