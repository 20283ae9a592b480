package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/locshare/internal/model"
	"github.com/xxxsen/locshare/internal/pkg/dbutil"
	appErr "github.com/xxxsen/locshare/internal/pkg/errors"
)

// LocationRepo is the client for the durable multi-user location table. The
// table and its auth policy belong to the remote deployment; this side only
// inserts and lists.
type LocationRepo struct {
	db *sql.DB
}

func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) Insert(ctx context.Context, loc *model.Location) error {
	data := map[string]interface{}{
		"id":         loc.ID,
		"owner":      loc.Owner,
		"lat":        loc.Lat,
		"lng":        loc.Lng,
		"accuracy":   loc.Accuracy,
		"created_at": loc.CreatedAt,
	}
	sqlStr, args, err := builder.BuildInsert("locations", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

// ListRecent returns the owner's rows newest-first.
func (r *LocationRepo) ListRecent(ctx context.Context, owner string, limit uint) ([]model.Location, error) {
	where := map[string]interface{}{
		"owner":    owner,
		"_orderby": "created_at desc",
	}
	if limit > 0 {
		where["_limit"] = []uint{limit}
	}
	sqlStr, args, err := builder.BuildSelect("locations", where, []string{"id", "owner", "lat", "lng", "accuracy", "created_at"})
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Location, 0)
	for rows.Next() {
		var item model.Location
		if err := rows.Scan(&item.ID, &item.Owner, &item.Lat, &item.Lng, &item.Accuracy, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
