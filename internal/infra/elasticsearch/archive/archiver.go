// archive projects committed timestamp records into Elasticsearch for search. It is a
// read-side copy only; nothing reads it back into the replicated state.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/rs/zerolog/log"

	"github.com/lloydmeta/timestamping/internal/domain/blockchain"
	"github.com/lloydmeta/timestamping/internal/domain/storage"
	"github.com/lloydmeta/timestamping/internal/domain/timestamp"
	"github.com/lloydmeta/timestamping/internal/infra/elasticsearch/common"
)

const DefaultIndex common.IndexName = "timestamping_records"

// Archiver is a blockchain.CommitHook
type Archiver struct {
	client *elasticsearch.Client
	index  common.IndexName
}

func NewArchiver(client *elasticsearch.Client, index common.IndexName) *Archiver {
	if index == "" {
		index = DefaultIndex
	}
	return &Archiver{client: client, index: index}
}

func (a *Archiver) OnCommit(ctx context.Context, block *blockchain.Block, patch *storage.Patch) error {
	entries := patch.Entries(timestamp.TimestampsIndex)
	if len(entries) == 0 {
		return nil
	}
	docs := make([]persistedRecord, 0, len(entries))
	var errAcc []error
	for _, e := range entries {
		record, err := timestamp.DecodeRecord(e.Value)
		if err != nil {
			errAcc = append(errAcc, err)
			continue
		}
		docs = append(docs, toPersistedRecord(record, block))
	}
	if len(errAcc) != 0 {
		return common.JsonSerdesErr{Underlying: errAcc}
	}

	body, err := a.buildBulkNdJsonBytes(docs)
	if err != nil {
		return err
	}
	bulkReq := esapi.BulkRequest{
		Body: bytes.NewReader(body),
	}
	rawResp, err := bulkReq.Do(ctx, a.client)
	if err != nil {
		return common.ElasticsearchErr{Underlying: err}
	}
	defer rawResp.Body.Close()
	if rawResp.IsError() {
		return common.UnexpectedEsStatusError(rawResp)
	}
	var response common.EsBulkResponse
	if err := json.NewDecoder(rawResp.Body).Decode(&response); err != nil {
		return common.JsonSerdesErr{Underlying: []error{err}}
	}
	if failed := response.Failed(); len(failed) != 0 {
		return common.ElasticsearchErr{Underlying: fmt.Errorf("failed to archive [%d] records: %v", len(failed), failed)}
	}
	if log.Debug().Enabled() {
		log.Debug().
			Uint64("height", block.Height).
			Int("records", len(docs)).
			Msg("Archived records")
	}
	return nil
}

func (a *Archiver) buildBulkNdJsonBytes(docs []persistedRecord) ([]byte, error) {
	var errAcc []error
	var bytesAcc []byte
	for _, doc := range docs {
		op := indexBulkOp{Index: indexBulkOpData{Id: doc.Key, Index: string(a.index)}}
		opBytes, err := json.Marshal(op)
		if err != nil {
			errAcc = append(errAcc, err)
		}
		if len(errAcc) == 0 {
			bytesAcc = append(bytesAcc, opBytes...)
			bytesAcc = append(bytesAcc, "\n"...)
		}

		dataBytes, err := json.Marshal(doc)
		if err != nil {
			errAcc = append(errAcc, err)
		}
		if len(errAcc) == 0 {
			bytesAcc = append(bytesAcc, dataBytes...)
			bytesAcc = append(bytesAcc, "\n"...)
		}
	}
	if len(errAcc) != 0 {
		return nil, common.JsonSerdesErr{Underlying: errAcc}
	} else {
		return bytesAcc, nil
	}
}

func toPersistedRecord(record *timestamp.Record, block *blockchain.Block) persistedRecord {
	var signer *string
	if record.Signer != nil {
		s := record.Signer.String()
		signer = &s
	}
	return persistedRecord{
		Key:         record.Key.String(),
		FileHash:    record.FileHash.String(),
		Time:        record.Time,
		Signer:      signer,
		BlockHeight: block.Height,
		BlockHash:   block.Hash().String(),
	}
}

// Private persistence doc structures based entirely on basic types for ease of guaranteeing serdes.

type persistedRecord struct {
	Key         string  `json:"key"`
	FileHash    string  `json:"file_hash"`
	Time        uint64  `json:"time"`
	Signer      *string `json:"signer,omitempty"`
	BlockHeight uint64  `json:"block_height"`
	BlockHash   string  `json:"block_hash"`
}

type indexBulkOp struct {
	Index indexBulkOpData `json:"index"`
}

type indexBulkOpData struct {
	Id    string `json:"_id"`
	Index string `json:"_index"`
}
