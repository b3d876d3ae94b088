package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/domain/interfaces"
	"github.com/secmon-lab/caseline/pkg/domain/model"
	"github.com/secmon-lab/caseline/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	casesCollectionName    = "cases"
	countersCollectionName = "counters"
	caseCounterDoc         = "case_counter"
)

type caseDocument struct {
	ID           int64     `firestore:"id"`
	Title        string    `firestore:"title"`
	Description  string    `firestore:"description"`
	CustomerName string    `firestore:"customer_name"`
	Status       string    `firestore:"status"`
	Priority     string    `firestore:"priority"`
	CreatedAt    time.Time `firestore:"created_at"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

func toCaseDocument(c *model.Case) *caseDocument {
	return &caseDocument{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		CustomerName: c.CustomerName,
		Status:       c.Status.String(),
		Priority:     c.Priority.Normalize().String(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (d *caseDocument) toModel() *model.Case {
	return &model.Case{
		ID:           d.ID,
		Title:        d.Title,
		Description:  d.Description,
		CustomerName: d.CustomerName,
		Status:       types.CaseStatus(d.Status),
		Priority:     types.CasePriority(d.Priority).Normalize(),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type caseRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCaseRepository(client *firestore.Client) *caseRepository {
	return &caseRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *caseRepository) casesCollection() string {
	return prefixed(r.collectionPrefix, casesCollectionName)
}

func (r *caseRepository) counterCollection() string {
	return prefixed(r.collectionPrefix, countersCollectionName)
}

func (r *caseRepository) getNextID(ctx context.Context) (int64, error) {
	counterRef := r.client.Collection(r.counterCollection()).Doc(caseCounterDoc)

	var nextID int64
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(counterRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				nextID = 1
				return tx.Set(counterRef, map[string]interface{}{
					"value": nextID,
				})
			}
			return goerr.Wrap(err, "failed to get counter")
		}

		currentValue, err := doc.DataAt("value")
		if err != nil {
			return goerr.Wrap(err, "failed to get counter value")
		}

		val, ok := currentValue.(int64)
		if !ok {
			return goerr.New("counter value is not of type int64", goerr.V("value", currentValue))
		}
		nextID = val + 1
		return tx.Update(counterRef, []firestore.Update{
			{Path: "value", Value: nextID},
		})
	})

	if err != nil {
		return 0, goerr.Wrap(err, "failed to get next ID")
	}

	return nextID, nil
}

func (r *caseRepository) Create(ctx context.Context, c *model.Case) (*model.Case, error) {
	nextID, err := r.getNextID(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get next ID")
	}

	now := time.Now().UTC()
	created := *c
	created.ID = nextID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	if created.UpdatedAt.IsZero() {
		created.UpdatedAt = now
	}
	created.Priority = created.Priority.Normalize()

	docID := fmt.Sprintf("%d", created.ID)
	if _, err := r.client.Collection(r.casesCollection()).Doc(docID).Set(ctx, toCaseDocument(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create case", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *caseRepository) Get(ctx context.Context, id int64) (*model.Case, error) {
	docID := fmt.Sprintf("%d", id)
	docSnap, err := r.client.Collection(r.casesCollection()).Doc(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V("id", id))
	}

	var doc caseDocument
	if err := docSnap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *caseRepository) List(ctx context.Context, opts ...interfaces.ListCaseOption) ([]*model.Case, error) {
	cfg := interfaces.BuildListCaseConfig(opts...)

	query := r.client.Collection(r.casesCollection()).Query
	if s := cfg.Status(); s != nil {
		query = query.Where("status", "==", s.String())
	}
	query = query.OrderBy("id", firestore.Asc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	cases := []*model.Case{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate cases")
		}

		var doc caseDocument
		if err := docSnap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode case", goerr.V("doc_id", docSnap.Ref.ID))
		}

		cases = append(cases, doc.toModel())
	}

	return cases, nil
}

func (r *caseRepository) Update(ctx context.Context, c *model.Case) (*model.Case, error) {
	docID := fmt.Sprintf("%d", c.ID)
	docRef := r.client.Collection(r.casesCollection()).Doc(docID)

	var updated model.Case
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", c.ID))
			}
			return goerr.Wrap(err, "failed to check case existence", goerr.V("id", c.ID))
		}

		var existing caseDocument
		if err := docSnap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode case", goerr.V("id", c.ID))
		}

		updated = *c
		updated.CreatedAt = existing.CreatedAt
		if updated.UpdatedAt.IsZero() {
			updated.UpdatedAt = time.Now().UTC()
		}
		updated.Priority = updated.Priority.Normalize()

		return tx.Set(docRef, toCaseDocument(&updated))
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update case", goerr.V("id", c.ID))
	}

	return &updated, nil
}

func (r *caseRepository) Delete(ctx context.Context, id int64) error {
	docID := fmt.Sprintf("%d", id)
	docRef := r.client.Collection(r.casesCollection()).Doc(docID)

	// Check if document exists
	_, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "case not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check case existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete case", goerr.V("id", id))
	}

	return nil
}
