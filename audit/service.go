package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Sephirode/realDesia/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultBatchSize     = 100
	defaultFlushInterval = 2 * time.Second
	queueSize            = 1024
)

// BattleEntry is one finished battle to be recorded.
type BattleEntry struct {
	BattleID   string
	SessionID  string
	Enemy      string
	EnemyLevel int
	Boss       bool
	Outcome    string
	Rounds     int
	Exp        int
	Gold       int
	Lines      []string
}

// Options tunes the writer. Zero values use the defaults.
type Options struct {
	BatchSize     int
	FlushInterval time.Duration
}

// Service writes battle logs asynchronously in batches.
type Service struct {
	db       *gorm.DB
	ch       chan *model.BattleLog
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	logger   *zap.Logger

	batchSize int
	interval  time.Duration
}

// New creates a new audit Service and starts its background worker.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	return NewWithOptions(db, logger, Options{})
}

// NewWithOptions is New with explicit batching options.
func NewWithOptions(db *gorm.DB, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = defaultFlushInterval
	}
	svc := &Service{
		db:        db,
		ch:        make(chan *model.BattleLog, queueSize),
		stopCh:    make(chan struct{}),
		logger:    logger,
		batchSize: opts.BatchSize,
		interval:  opts.FlushInterval,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// LogBattle enqueues a battle record for async DB write. It never blocks;
// entries are dropped when the queue is full.
func (svc *Service) LogBattle(entry BattleEntry) {
	lines := entry.Lines
	if lines == nil {
		lines = []string{}
	}
	linesJSON, _ := json.Marshal(lines)
	record := &model.BattleLog{
		BattleID:   entry.BattleID,
		SessionID:  entry.SessionID,
		Enemy:      entry.Enemy,
		EnemyLevel: entry.EnemyLevel,
		Boss:       entry.Boss,
		Outcome:    entry.Outcome,
		Rounds:     entry.Rounds,
		Exp:        entry.Exp,
		Gold:       entry.Gold,
		Lines:      datatypes.JSON(linesJSON),
	}
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("battle log queue full, dropping entry",
			zap.String("battle_id", entry.BattleID))
	}
}

// Stop flushes remaining entries and shuts down the worker.
// It blocks until the worker goroutine has finished or ctx is done.
func (svc *Service) Stop(ctx context.Context) {
	svc.stopOnce.Do(func() { close(svc.stopCh) })
	done := make(chan struct{})
	go func() {
		svc.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		svc.logger.Warn("battle log writer stop timed out", zap.Error(ctx.Err()))
	}
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(svc.interval)
	defer ticker.Stop()

	batch := make([]*model.BattleLog, 0, svc.batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("battle log batch write failed", zap.Int("size", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-svc.ch:
			batch = append(batch, entry)
			if len(batch) >= svc.batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			for {
				select {
				case entry := <-svc.ch:
					batch = append(batch, entry)
					if len(batch) >= svc.batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
