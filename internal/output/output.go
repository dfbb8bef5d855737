package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrisdamba/ordersim/internal/models"
	"github.com/chrisdamba/ordersim/internal/output/producers"
)

// OutputDestination is the publish capability handed to both schedulers. One
// WriteMessage call per synthesized order; the engine retains no reference to
// an event after it is published.
type OutputDestination interface {
	WriteMessage(topic string, msg []byte) error
	Close() error
}

type ConsoleOutput struct{}

type JSONOutput struct {
	basePath string
	folder   string
	files    map[string]*os.File
}

// ForConfig selects the sink the run publishes to: Kafka when enabled, a
// file-based format when an output path is set, stdout otherwise.
func ForConfig(ctx context.Context, cfg *models.Config) (OutputDestination, error) {
	if cfg.KafkaEnabled {
		return producers.NewSaramaProducer(cfg)
	}
	if cfg.OutputPath != "" {
		switch cfg.OutputFormat {
		case "parquet":
			return NewParquetOutput(cfg)
		case "json":
			return NewJSONOutput(cfg.OutputPath, cfg.OutputFolder), nil
		case "postgres":
			return NewPostgresOutput(ctx, &cfg.Database)
		default:
			return nil, fmt.Errorf("unsupported output format: %s", cfg.OutputFormat)
		}
	}
	return &ConsoleOutput{}, nil
}

func NewJSONOutput(basePath, folder string) *JSONOutput {
	return &JSONOutput{
		basePath: basePath,
		folder:   folder,
		files:    make(map[string]*os.File),
	}
}

// partitionPath buckets events by their own timestamp, so backfilled history
// lands in the same layout a long-running realtime process would produce.
func partitionPath(msg []byte) (string, error) {
	var event models.OrderEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		return "", err
	}
	if event.Timestamp.IsZero() {
		return "", fmt.Errorf("invalid timestamp")
	}

	year, month, day := event.Timestamp.Date()
	hour := event.Timestamp.Hour()
	return fmt.Sprintf("year=%d/month=%02d/day=%02d/hour=%02d", year, month, day, hour), nil
}

func (j *JSONOutput) WriteMessage(topic string, msg []byte) error {
	partition, err := partitionPath(msg)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(j.basePath, j.folder, topic, partition)
	if err := os.MkdirAll(fullPath, os.ModePerm); err != nil {
		return err
	}

	fileKey := fmt.Sprintf("%s_%s", topic, partition)
	file, ok := j.files[fileKey]
	if !ok {
		file, err = os.OpenFile(filepath.Join(fullPath, "data.json"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		j.files[fileKey] = file
	}

	if _, err := file.Write(msg); err != nil {
		return err
	}
	_, err = file.WriteString("\n")
	return err
}

func (j *JSONOutput) Close() error {
	for _, file := range j.files {
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}

func (c *ConsoleOutput) WriteMessage(topic string, msg []byte) error {
	// Create a formatted string that includes the topic
	output := fmt.Sprintf("[%s] %s\n", topic, string(msg))

	_, err := os.Stdout.Write([]byte(output))
	if err != nil {
		return fmt.Errorf("failed to write to stdout: %w", err)
	}

	// Try to sync, but don't return an error if it fails
	_ = os.Stdout.Sync()

	return nil
}

func (c *ConsoleOutput) Close() error {
	return nil
}
