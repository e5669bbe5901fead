package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"scan-crop/internal/domain/entity"
	"scan-crop/internal/domain/port"
)

// Options управляют записью результатов одного файла.
type Options struct {
	OutputDir string // каталог для результатов; пусто — рядом с исходником
	Overwrite bool   // писать поверх исходного файла
	DryRun    bool   // ничего не записывать
	Geometry  bool   // писать JSON-файл с геометрией рядом с результатом
}

// FrameOutcome — итог обработки одного найденного кадра.
type FrameOutcome struct {
	Path       string // куда записан кадр; пусто при dry-run
	Status     entity.CropStatus
	Confidence float64
	Rotation   int
	Err        error // ошибка записи, если Status == failed
}

// FileReport — итог обработки одного файла скана.
type FileReport struct {
	Path   string
	Frames []FrameOutcome
}

// Clean сообщает, что файл обработан без замечаний: хотя бы один кадр,
// и все кадры со статусом success.
func (r *FileReport) Clean() bool {
	if len(r.Frames) == 0 {
		return false
	}
	for _, f := range r.Frames {
		if f.Status != entity.StatusSuccess {
			return false
		}
	}
	return true
}

// CropService управляет обработкой сканов: загрузка, детекция, запись.
type CropService struct {
	loader   port.ImageLoader
	writer   port.ImageWriter
	detector port.FrameDetector
}

// NewCropService создаёт сервис обрезки кадров.
func NewCropService(loader port.ImageLoader, writer port.ImageWriter, detector port.FrameDetector) *CropService {
	return &CropService{
		loader:   loader,
		writer:   writer,
		detector: detector,
	}
}

// ProcessImage запускает детектор на уже декодированном изображении.
// Ничего не пишет на диск: это чистая функция для встраивания.
func (s *CropService) ProcessImage(ctx context.Context, img image.Image) ([]entity.CropResult, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}
	return s.detector.DetectFrames(ctx, img)
}

// ProcessFile загружает файл, находит кадры и записывает каждый в свой
// выходной файл. Неуверенные кадры записываются и помечаются, а не
// отбрасываются; ошибка записи одного кадра не прерывает остальные.
func (s *CropService) ProcessFile(ctx context.Context, path string, opts Options) (*FileReport, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}
	if s.loader == nil {
		return nil, errors.New("loader is not configured")
	}

	img, err := s.loader.Load(path)
	if err != nil {
		return nil, err
	}

	results, err := s.detector.DetectFrames(ctx, img)
	if err != nil {
		return nil, err
	}

	report := &FileReport{Path: path, Frames: make([]FrameOutcome, 0, len(results))}

	for i, res := range results {
		outcome := FrameOutcome{
			Status:     res.Status,
			Confidence: res.Confidence,
			Rotation:   res.Rotation,
		}

		if !opts.DryRun {
			outPath := s.outputPath(path, opts, i, len(results))
			if err := s.writer.Save(res.Image, outPath); err != nil {
				outcome.Status = entity.StatusFailed
				outcome.Err = err
			} else {
				outcome.Path = outPath
				if opts.Geometry {
					if err := writeGeometry(outPath, res); err != nil {
						outcome.Err = err
					}
				}
			}
		}

		report.Frames = append(report.Frames, outcome)
	}

	return report, nil
}

// outputPath строит путь результата: поверх исходника, в выходной каталог
// или рядом с суффиксом _cropped. При нескольких кадрах добавляется номер.
func (s *CropService) outputPath(srcPath string, opts Options, idx, total int) string {
	ext := safeExt(filepath.Ext(srcPath))
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))

	suffix := ""
	if total > 1 {
		suffix = fmt.Sprintf("-%d", idx+1)
	}

	switch {
	case opts.Overwrite && total == 1 && ext == filepath.Ext(srcPath):
		return srcPath
	case opts.OutputDir != "":
		return filepath.Join(opts.OutputDir, base+suffix+ext)
	default:
		return filepath.Join(filepath.Dir(srcPath), base+suffix+"_cropped"+ext)
	}
}

// safeExt подменяет расширения, для которых нет кодировщика.
// webp читается, но пишется как png.
func safeExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp":
		return ext
	default:
		return ".png"
	}
}

// geometrySidecar — содержимое JSON-файла с геометрией кадра.
type geometrySidecar struct {
	Corners    [4][2]float64 `json:"corners"`
	AngleDeg   float64       `json:"angle_deg"`
	Rotation   int           `json:"rotation"`
	Confidence float64       `json:"confidence"`
	Status     string        `json:"status"`
	Polarity   string        `json:"polarity"`
}

func writeGeometry(outPath string, res entity.CropResult) error {
	sc := geometrySidecar{
		AngleDeg:   res.Frame.Angle,
		Rotation:   res.Rotation,
		Confidence: res.Confidence,
		Status:     string(res.Status),
		Polarity:   string(res.Polarity),
	}
	for i, p := range res.Frame.Corners {
		sc.Corners[i] = [2]float64{p.X, p.Y}
	}

	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal geometry: %w", err)
	}
	if err := os.WriteFile(outPath+".json", data, 0644); err != nil {
		return fmt.Errorf("write geometry: %w", err)
	}
	return nil
}
