package audit

import (
	"context"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/log"
)

// Audit actions for administrative index operations.
const (
	ActionImport = "index.import"
	ActionFlush  = "index.flush"
)

// Field constants for audit entries.
const (
	FieldAction  = "action"
	FieldRecords = "records"
	FieldOutcome = "outcome"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, userID, category string, records int, err error) {
	l := log.Ctx(ctx)
	outcome := OutcomeSuccess
	evt := l.Info()
	if err != nil {
		outcome = OutcomeFailure
		evt = l.Warn().Err(err)
	}
	evt.
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(log.FieldCategory, category).
		Int(FieldRecords, records).
		Str(FieldOutcome, outcome).
		Msg(action)
}
