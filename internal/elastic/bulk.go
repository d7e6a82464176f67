package elastic

import (
	"bytes"
	"encoding/json"
	"io"
)

const (
	actionIndex  = "index"
	actionDelete = "delete"
)

type bulkMeta struct {
	Index string `json:"_index"`
	Type  string `json:"_type,omitempty"`
	ID    string `json:"_id"`
}

// bulkBatch accumulates NDJSON action lines for the _bulk endpoint.
type bulkBatch struct {
	buf   bytes.Buffer
	enc   *json.Encoder
	count int
}

func newBulkBatch() *bulkBatch {
	b := &bulkBatch{}
	b.enc = json.NewEncoder(&b.buf)
	b.enc.SetEscapeHTML(false)
	return b
}

// add writes the action line and, when doc is non-nil, the document line.
func (b *bulkBatch) add(action string, meta bulkMeta, doc map[string]any) error {
	if err := b.enc.Encode(map[string]bulkMeta{action: meta}); err != nil {
		return err
	}
	if doc != nil {
		if err := b.enc.Encode(doc); err != nil {
			return err
		}
	}
	b.count++
	return nil
}

func (b *bulkBatch) len() int {
	return b.count
}

func (b *bulkBatch) reader() io.Reader {
	return bytes.NewReader(b.buf.Bytes())
}
