package observability

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hoopsight/nba-datalake/internal/config"
	"github.com/hoopsight/nba-datalake/internal/platform/logging"
)

// CloudWatchLogsAPI is the slice of the CloudWatch Logs client the mirror
// needs.
type CloudWatchLogsAPI interface {
	CreateLogGroup(ctx context.Context, input *cloudwatchlogs.CreateLogGroupInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogGroupOutput, error)
	CreateLogStream(ctx context.Context, input *cloudwatchlogs.CreateLogStreamInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.CreateLogStreamOutput, error)
	PutLogEvents(ctx context.Context, input *cloudwatchlogs.PutLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// InitCloudWatchLogger builds the run logger: a stdout JSON core, teed with
// a CloudWatch Logs core when mirroring is enabled. The returned flush
// function drains the mirror queue and must be called at end of run.
func InitCloudWatchLogger(cfg config.Config, api CloudWatchLogsAPI) (*logging.Logger, func(context.Context) error, error) {
	baseLogger := logging.NewJSON(cfg.LogLevel)

	if !cfg.CloudWatchEnabled {
		baseLogger.Info("cloudwatch mirror disabled", "reason", "CLOUDWATCH_ENABLED=false")
		return baseLogger, func(context.Context) error { return nil }, nil
	}
	if api == nil {
		return nil, nil, fmt.Errorf("cloudwatch client is required when mirroring is enabled")
	}

	streamName := fmt.Sprintf("%s-%s", cfg.ServiceName, time.Now().UTC().Format("20060102T150405Z"))

	setupCtx, cancel := context.WithTimeout(context.Background(), cfg.CloudWatchTimeout)
	defer cancel()
	if err := ensureLogTarget(setupCtx, api, cfg.CloudWatchLogGroup, streamName); err != nil {
		return nil, nil, fmt.Errorf("prepare cloudwatch log target: %w", err)
	}

	syncer := newCloudWatchWriteSyncer(api, cfg.CloudWatchLogGroup, streamName, cfg.CloudWatchTimeout)

	encoderCfg := logging.EncoderConfig()
	stdoutCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		cfg.LogLevel,
	)
	cloudWatchCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(syncer),
		cfg.CloudWatchMinLevel,
	)

	zapLogger := zap.New(
		zapcore.NewTee(stdoutCore, cloudWatchCore),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	logger := logging.FromZap(zapLogger)
	logger.Info("cloudwatch mirror enabled",
		"log_group", cfg.CloudWatchLogGroup,
		"log_stream", streamName,
		"min_level", cfg.CloudWatchMinLevel.String(),
	)

	return logger, func(ctx context.Context) error {
		drainCtx := ctx
		if drainCtx == nil {
			drainCtx = context.Background()
		}
		if _, hasDeadline := drainCtx.Deadline(); !hasDeadline {
			withTimeout, cancel := context.WithTimeout(drainCtx, 5*time.Second)
			defer cancel()
			drainCtx = withTimeout
		}
		if err := syncer.Close(drainCtx); err != nil {
			return fmt.Errorf("drain cloudwatch queue: %w", err)
		}
		if err := logger.Sync(); err != nil && !isIgnorableLoggerSyncError(err) {
			return err
		}
		return nil
	}, nil
}

// ensureLogTarget creates the log group and the per-run stream, treating
// already-exists as success.
func ensureLogTarget(ctx context.Context, api CloudWatchLogsAPI, group, stream string) error {
	_, err := api.CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
		LogGroupName: aws.String(group),
	})
	if err != nil && !isResourceExists(err) {
		return fmt.Errorf("create log group %s: %w", group, err)
	}

	_, err = api.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(group),
		LogStreamName: aws.String(stream),
	})
	if err != nil && !isResourceExists(err) {
		return fmt.Errorf("create log stream %s: %w", stream, err)
	}

	return nil
}

func isResourceExists(err error) bool {
	var exists *cwltypes.ResourceAlreadyExistsException
	return stderrors.As(err, &exists)
}

type cloudWatchWriteSyncer struct {
	api       CloudWatchLogsAPI
	group     string
	stream    string
	timeout   time.Duration
	queue     chan []byte
	queueMu   sync.RWMutex
	closeOnce sync.Once
	closed    atomic.Bool
	wg        sync.WaitGroup
	dropped   atomic.Uint64
}

func newCloudWatchWriteSyncer(api CloudWatchLogsAPI, group, stream string, timeout time.Duration) *cloudWatchWriteSyncer {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	s := &cloudWatchWriteSyncer{
		api:     api,
		group:   group,
		stream:  stream,
		timeout: timeout,
		queue:   make(chan []byte, 1024),
	}
	s.wg.Add(1)
	go s.run()

	return s
}

func (s *cloudWatchWriteSyncer) Write(p []byte) (int, error) {
	payload := bytes.TrimSpace(p)
	if len(payload) == 0 {
		return len(p), nil
	}

	s.queueMu.RLock()
	defer s.queueMu.RUnlock()
	if s.closed.Load() {
		return len(p), nil
	}

	// Copy payload because zap reuses internal buffers after Write returns.
	copied := make([]byte, len(payload))
	copy(copied, payload)

	select {
	case s.queue <- copied:
	default:
		dropped := s.dropped.Add(1)
		if dropped == 1 || dropped%100 == 0 {
			fmt.Fprintf(os.Stderr, "cloudwatch queue full; dropped logs=%d\n", dropped)
		}
	}

	return len(p), nil
}

func (s *cloudWatchWriteSyncer) run() {
	defer s.wg.Done()

	for payload := range s.queue {
		s.send(payload)
	}
}

func (s *cloudWatchWriteSyncer) send(payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.api.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(s.group),
		LogStreamName: aws.String(s.stream),
		LogEvents: []cwltypes.InputLogEvent{
			{
				Timestamp: aws.Int64(time.Now().UnixMilli()),
				Message:   aws.String(string(payload)),
			},
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cloudwatch put log events failed: %v\n", err)
	}
}

func (s *cloudWatchWriteSyncer) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s.closeOnce.Do(func() {
		s.queueMu.Lock()
		s.closed.Store(true)
		close(s.queue)
		s.queueMu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *cloudWatchWriteSyncer) Sync() error {
	return nil
}

func isIgnorableLoggerSyncError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad file descriptor") || strings.Contains(msg, "invalid argument")
}
