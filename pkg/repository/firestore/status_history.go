package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/domain/model"
	"github.com/secmon-lab/caseline/pkg/domain/types"
	"google.golang.org/api/iterator"
)

const statusHistoryCollectionName = "status_history"

// Firestore has a limit of 30 items in an IN query
const inQueryBatchSize = 30

type statusHistoryDocument struct {
	ID        string    `firestore:"id"`
	CaseID    int64     `firestore:"case_id"`
	Status    string    `firestore:"status"`
	CreatedAt time.Time `firestore:"created_at"`
}

func (d *statusHistoryDocument) toModel() model.StatusHistoryEntry {
	return model.StatusHistoryEntry{
		ID:        model.StatusHistoryID(d.ID),
		CaseID:    d.CaseID,
		Status:    types.CaseStatus(d.Status),
		CreatedAt: d.CreatedAt,
	}
}

type statusHistoryRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newStatusHistoryRepository(client *firestore.Client) *statusHistoryRepository {
	return &statusHistoryRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *statusHistoryRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(prefixed(r.collectionPrefix, statusHistoryCollectionName))
}

func (r *statusHistoryRepository) Add(ctx context.Context, entry *model.StatusHistoryEntry) (*model.StatusHistoryEntry, error) {
	if entry == nil {
		return nil, goerr.New("status history entry is nil")
	}

	created := *entry
	if created.ID == "" {
		created.ID = model.NewStatusHistoryID()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	doc := &statusHistoryDocument{
		ID:        string(created.ID),
		CaseID:    created.CaseID,
		Status:    created.Status.String(),
		CreatedAt: created.CreatedAt,
	}
	if _, err := r.collection().Doc(doc.ID).Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to add status history entry",
			goerr.V("case_id", created.CaseID),
			goerr.V("entry_id", created.ID))
	}

	return &created, nil
}

// ListByCase returns the newest entries first
func (r *statusHistoryRepository) ListByCase(ctx context.Context, caseID int64) ([]model.StatusHistoryEntry, error) {
	query := r.collection().
		Where("case_id", "==", caseID).
		OrderBy("created_at", firestore.Desc)

	entries := []model.StatusHistoryEntry{}
	if err := r.collect(query.Documents(ctx), func(e model.StatusHistoryEntry) {
		entries = append(entries, e)
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to list status history", goerr.V("case_id", caseID))
	}

	return entries, nil
}

func (r *statusHistoryRepository) ListByCases(ctx context.Context, caseIDs []int64) (map[int64][]model.StatusHistoryEntry, error) {
	result := make(map[int64][]model.StatusHistoryEntry)

	for i := 0; i < len(caseIDs); i += inQueryBatchSize {
		end := i + inQueryBatchSize
		if end > len(caseIDs) {
			end = len(caseIDs)
		}

		batch := caseIDs[i:end]
		query := r.collection().Where("case_id", "in", batch)
		if err := r.collect(query.Documents(ctx), func(e model.StatusHistoryEntry) {
			result[e.CaseID] = append(result[e.CaseID], e)
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to list status history for cases", goerr.V("batch_start", i))
		}
	}

	return result, nil
}

func (r *statusHistoryRepository) DeleteByCase(ctx context.Context, caseID int64) error {
	iter := r.collection().Where("case_id", "==", caseID).Documents(ctx)
	defer iter.Stop()

	bulkWriter := r.client.BulkWriter(ctx)
	defer bulkWriter.End()

	var jobs []*firestore.BulkWriterJob
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate status history for deletion", goerr.V("case_id", caseID))
		}

		job, err := bulkWriter.Delete(doc.Ref)
		if err != nil {
			return goerr.Wrap(err, "failed to delete status history entry", goerr.V("case_id", caseID))
		}
		jobs = append(jobs, job)
	}

	bulkWriter.Flush()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "failed to delete status history entry", goerr.V("case_id", caseID))
		}
	}

	return nil
}

func (r *statusHistoryRepository) collect(iter *firestore.DocumentIterator, fn func(model.StatusHistoryEntry)) error {
	defer iter.Stop()

	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate status history")
		}

		var doc statusHistoryDocument
		if err := docSnap.DataTo(&doc); err != nil {
			return goerr.Wrap(err, "failed to decode status history entry", goerr.V("doc_id", docSnap.Ref.ID))
		}
		fn(doc.toModel())
	}
}
