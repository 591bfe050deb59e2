// Package watch turns Firestore snapshot listeners into Go channels. One
// listener backs one channel; the listener's lifetime is exactly the
// lifetime of the context that opened it, so every subscribe is paired with
// one teardown when the consumer goes away.
package watch

import (
	"context"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"taxportal-backend/internal/models"
)

// CaseEvent is one push for a single-case subscription. Exists is false
// when the case document does not (or no longer) exists.
type CaseEvent struct {
	Case   *models.TaxCase `json:"case,omitempty"`
	Exists bool            `json:"exists"`
}

// DocumentsEvent is one push for a case's document ledger: the full current
// ledger, newest first.
type DocumentsEvent struct {
	Documents []*models.CaseDocument `json:"documents"`
}

// CaseListEvent is one push for a role-scoped case list subscription.
type CaseListEvent struct {
	Cases []*models.TaxCase `json:"cases"`
}

// Watcher owns the Firestore client used for all live subscriptions.
type Watcher struct {
	client *firestore.Client
	logger *zap.Logger
}

// NewWatcher creates a Watcher.
func NewWatcher(client *firestore.Client, logger *zap.Logger) *Watcher {
	return &Watcher{client: client, logger: logger}
}

// WatchCase subscribes to a single case document. The returned channel
// closes when ctx is done or the listener fails.
func (w *Watcher) WatchCase(ctx context.Context, caseID string) <-chan CaseEvent {
	out := make(chan CaseEvent, 1)
	go func() {
		defer close(out)
		iter := w.client.Collection("cases").Doc(caseID).Snapshots(ctx)
		defer iter.Stop()
		for {
			snap, err := iter.Next()
			if err != nil {
				w.logStop("case", caseID, ctx, err)
				return
			}
			ev := CaseEvent{Exists: snap.Exists()}
			if snap.Exists() {
				var taxCase models.TaxCase
				if err := snap.DataTo(&taxCase); err != nil {
					w.logger.Warn("Failed to decode case snapshot", zap.String("caseId", caseID), zap.Error(err))
					continue
				}
				taxCase.ID = snap.Ref.ID
				ev.Case = &taxCase
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// WatchCaseDocuments subscribes to a case's document sub-collection,
// ordered newest first. Established independently of the case listener;
// both are torn down by their own context.
func (w *Watcher) WatchCaseDocuments(ctx context.Context, caseID string) <-chan DocumentsEvent {
	out := make(chan DocumentsEvent, 1)
	go func() {
		defer close(out)
		query := w.client.Collection("cases").Doc(caseID).Collection("documents").
			OrderBy("createdAt", firestore.Desc)
		iter := query.Snapshots(ctx)
		defer iter.Stop()
		for {
			qsnap, err := iter.Next()
			if err != nil {
				w.logStop("documents", caseID, ctx, err)
				return
			}
			var docs []*models.CaseDocument
			for {
				snap, err := qsnap.Documents.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					w.logger.Warn("Failed to iterate document snapshot", zap.String("caseId", caseID), zap.Error(err))
					break
				}
				var d models.CaseDocument
				if err := snap.DataTo(&d); err != nil {
					continue
				}
				d.ID = snap.Ref.ID
				docs = append(docs, &d)
			}
			select {
			case out <- DocumentsEvent{Documents: docs}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// WatchCasesByUser subscribes to a client's own cases.
func (w *Watcher) WatchCasesByUser(ctx context.Context, userID string) <-chan CaseListEvent {
	query := w.client.Collection("cases").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	return w.watchCaseQuery(ctx, "user:"+userID, query)
}

// WatchCasesByAssignee subscribes to a staff member's assigned cases.
func (w *Watcher) WatchCasesByAssignee(ctx context.Context, staffID string) <-chan CaseListEvent {
	query := w.client.Collection("cases").
		Where("assignedStaffId", "==", staffID).
		OrderBy("createdAt", firestore.Desc)
	return w.watchCaseQuery(ctx, "assignee:"+staffID, query)
}

// WatchAllCases subscribes to the unfiltered case registry. Admin view only.
func (w *Watcher) WatchAllCases(ctx context.Context) <-chan CaseListEvent {
	query := w.client.Collection("cases").OrderBy("createdAt", firestore.Desc)
	return w.watchCaseQuery(ctx, "all", query)
}

func (w *Watcher) watchCaseQuery(ctx context.Context, scope string, query firestore.Query) <-chan CaseListEvent {
	out := make(chan CaseListEvent, 1)
	go func() {
		defer close(out)
		iter := query.Snapshots(ctx)
		defer iter.Stop()
		for {
			qsnap, err := iter.Next()
			if err != nil {
				w.logStop("cases", scope, ctx, err)
				return
			}
			var cases []*models.TaxCase
			for {
				snap, err := qsnap.Documents.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					w.logger.Warn("Failed to iterate case snapshot", zap.String("scope", scope), zap.Error(err))
					break
				}
				var taxCase models.TaxCase
				if err := snap.DataTo(&taxCase); err != nil {
					continue
				}
				taxCase.ID = snap.Ref.ID
				cases = append(cases, &taxCase)
			}
			select {
			case out <- CaseListEvent{Cases: cases}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (w *Watcher) logStop(kind, scope string, ctx context.Context, err error) {
	if ctx.Err() != nil {
		w.logger.Debug("Listener closed", zap.String("kind", kind), zap.String("scope", scope))
		return
	}
	w.logger.Error("Listener terminated", zap.String("kind", kind), zap.String("scope", scope), zap.Error(err))
}
