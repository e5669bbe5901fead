package api

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	app "scan-crop/internal/application"
	"scan-crop/internal/container"
	"scan-crop/internal/domain/entity"
	"scan-crop/internal/infrastructure/imaging"
)

// Коды завершения процесса.
const (
	ExitOK    = 0 // все кадры вырезаны уверенно
	ExitDirty = 1 // были неуверенные кадры, пустые сканы или ошибки
	ExitUsage = 2 // некорректный вызов
)

// App — консольный интерфейс: разбор флагов, обход файлов, прогресс.
type App struct {
	services *container.Container
	out      io.Writer
	errOut   io.Writer
}

// New создаёт консольное приложение.
func New(services *container.Container) *App {
	return &App{
		services: services,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
}

// Run обрабатывает аргументы командной строки и возвращает код завершения.
func (a *App) Run(args []string) int {
	fs := flag.NewFlagSet("scan-crop", flag.ContinueOnError)
	fs.SetOutput(a.errOut)

	var (
		outputDir = fs.String("output-dir", "", "Output directory for processed images")
		overwrite = fs.Bool("overwrite", false, "Overwrite original images")
		dryRun    = fs.Bool("dry-run", false, "Do not write cropped output images")
		geometry  = fs.Bool("geometry", false, "Write a JSON sidecar with crop geometry")
		verbose   = fs.Bool("verbose", false, "Print debug information")
	)

	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if fs.NArg() == 0 {
		fmt.Fprintf(a.errOut, "Usage: scan-crop [options] image_files...\n")
		fs.PrintDefaults()
		return ExitUsage
	}

	files, err := a.expandArgs(fs.Args(), *outputDir, *overwrite)
	if err != nil {
		fmt.Fprintf(a.errOut, "ERROR: %v\n", err)
		return ExitUsage
	}

	if *outputDir != "" {
		if err := os.MkdirAll(*outputDir, 0755); err != nil {
			fmt.Fprintf(a.errOut, "ERROR: create output dir: %v\n", err)
			return ExitDirty
		}
	}

	opts := app.Options{
		OutputDir: *outputDir,
		Overwrite: *overwrite,
		DryRun:    *dryRun,
		Geometry:  *geometry,
	}

	ctx := context.Background()
	code := ExitOK
	total := len(files)

	for idx, path := range files {
		prefix := fmt.Sprintf("[%d/%d]", idx+1, total)

		report, err := a.services.CropService.ProcessFile(ctx, path, opts)
		if err != nil {
			fmt.Fprintf(a.errOut, "%s WARNING: skipping %q: %v\n", prefix, filepath.Base(path), err)
			code = ExitDirty
			continue
		}

		a.printReport(prefix, report, *dryRun, *verbose)
		if !report.Clean() {
			code = ExitDirty
		}
	}

	return code
}

// expandArgs разворачивает каталоги в списки файлов изображений.
// Для каталога нужно явно указать, куда писать результат.
func (a *App) expandArgs(args []string, outputDir string, overwrite bool) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// Несуществующий путь оставляем: ошибка всплывёт при загрузке.
			files = append(files, arg)
			continue
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		if !overwrite && outputDir == "" {
			return nil, fmt.Errorf("when passing a folder, provide -output-dir or -overwrite")
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("list directory %q: %w", arg, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(arg, e.Name())
			if imaging.IsImageFile(path) {
				files = append(files, path)
			}
		}
	}
	return files, nil
}

func (a *App) printReport(prefix string, report *app.FileReport, dryRun, verbose bool) {
	base := filepath.Base(report.Path)

	if len(report.Frames) == 0 {
		fmt.Fprintf(a.out, "%s no frames found (%s)\n", prefix, base)
		return
	}

	for _, f := range report.Frames {
		switch {
		case dryRun:
			fmt.Fprintf(a.out, "%s would crop frame (%.0f%% confidence) from %s\n",
				prefix, f.Confidence*100, base)
		case f.Status == entity.StatusFailed:
			fmt.Fprintf(a.errOut, "%s WARNING: failed to save frame from %s: %v\n", prefix, base, f.Err)
		case f.Status == entity.StatusLowConfidence:
			fmt.Fprintf(a.out, "%s cropped LOW-CONFIDENCE frame (%.0f%%) -> %s\n",
				prefix, f.Confidence*100, f.Path)
		default:
			fmt.Fprintf(a.out, "%s cropped frame -> %s\n", prefix, f.Path)
		}

		if verbose {
			log.Printf("%s: status=%s confidence=%.3f rotation=%d", base, f.Status, f.Confidence, f.Rotation)
		}
	}
}
