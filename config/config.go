package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Detection — параметры детектора кадров. Значения копируются при создании
// конвейера, поэтому один Config безопасно использовать из нескольких горутин.
type Detection struct {
	MinAreaFraction     float64 // минимальная доля площади скана для кандидата
	MinMaskPixels       int     // минимум пикселей маски в компоненте
	ThresholdPercentile float64 // перцентиль адаптивного порога (0..1)
	RotationRangeDeg    float64 // диапазон поиска наклона, ±градусы
	RotationStepDeg     float64 // шаг поиска наклона
	RotationImprovement float64 // минимальное относительное уменьшение площади
	ConfidenceThreshold float64 // ниже — статус low_confidence
	ExpectedAspect      float64 // ожидаемое соотношение сторон кадра (35мм = 1.5)
	MaxAspectDelta      float64 // допустимое отклонение для коррекции пропорций
	InsetFraction       float64 // финальное стягивание кропа внутрь
	MaxWorkingSide      int     // сканы крупнее уменьшаются перед детекцией
}

type Config struct {
	Backend   string // "pure" или "gocv"
	Detection Detection
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		Backend: getEnv("SCANCROP_BACKEND", "pure"),
		Detection: Detection{
			MinAreaFraction:     getEnvFloat("SCANCROP_MIN_AREA_FRACTION", 0.02),
			MinMaskPixels:       getEnvInt("SCANCROP_MIN_MASK_PIXELS", 64),
			ThresholdPercentile: getEnvFloat("SCANCROP_THRESHOLD_PERCENTILE", 0.80),
			RotationRangeDeg:    getEnvFloat("SCANCROP_ROTATION_RANGE_DEG", 10),
			RotationStepDeg:     getEnvFloat("SCANCROP_ROTATION_STEP_DEG", 0.5),
			RotationImprovement: getEnvFloat("SCANCROP_ROTATION_IMPROVEMENT", 0.05),
			ConfidenceThreshold: getEnvFloat("SCANCROP_CONFIDENCE_THRESHOLD", 0.75),
			ExpectedAspect:      getEnvFloat("SCANCROP_EXPECTED_ASPECT", 1.5),
			MaxAspectDelta:      getEnvFloat("SCANCROP_MAX_ASPECT_DELTA", 0.3),
			InsetFraction:       getEnvFloat("SCANCROP_INSET_FRACTION", 0.005),
			MaxWorkingSide:      getEnvInt("SCANCROP_MAX_WORKING_SIDE", 2048),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
