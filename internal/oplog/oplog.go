package oplog

import (
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vxsahu/crm-system/internal/domain"
	"github.com/vxsahu/crm-system/pkg/common"
)

const topic = "crm:oplog"

// Entry describes one mutating operation performed by an operator.
type Entry struct {
	OprName string
	OprIp   string
	Action  string
	Desc    string
}

// Recorder persists operation log lines published on an in-process event
// bus. Subscription is synchronous: the log row is written before the
// publishing request completes, so there is no background worker.
type Recorder struct {
	db  *gorm.DB
	bus EventBus.Bus
}

func NewRecorder(db *gorm.DB) *Recorder {
	r := &Recorder{db: db, bus: EventBus.New()}
	if err := r.bus.Subscribe(topic, r.write); err != nil {
		zap.L().Error("oplog subscribe failed", zap.Error(err))
	}
	return r
}

// Publish records a mutating operation.
func (r *Recorder) Publish(entry Entry) {
	r.bus.Publish(topic, entry)
}

func (r *Recorder) write(entry Entry) {
	err := r.db.Create(&domain.OprLog{
		ID:        common.UUIDint64(),
		OprName:   entry.OprName,
		OprIp:     entry.OprIp,
		OptAction: entry.Action,
		OptDesc:   entry.Desc,
		OptTime:   time.Now(),
	}).Error
	if err != nil {
		zap.L().Error("failed to write operation log",
			zap.String("action", entry.Action), zap.Error(err))
	}
}
