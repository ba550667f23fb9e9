package lists

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/topnlists/topn/pkg/database"
	"github.com/topnlists/topn/pkg/errcodes"
	"github.com/topnlists/topn/pkg/htmlutil"
	"github.com/topnlists/topn/pkg/metrics"
	"github.com/topnlists/topn/pkg/models"
	"github.com/uptrace/bun"
)

const itemCountExpr = "(SELECT COUNT(*) FROM list_items AS li WHERE li.list_id = ul.id) AS item_count"

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

type CreateListOptions struct {
	UserID     int
	TemplateID int
}

// CreateList starts a user's list against a template. A user can hold only
// one list per template.
func (svc *Service) CreateList(ctx context.Context, opts CreateListOptions) (*models.UserList, error) {
	if opts.UserID == 0 {
		return nil, errcodes.Unauthorized("Authentication required")
	}

	exists, err := svc.db.
		NewSelect().
		Model((*models.ListTemplate)(nil)).
		Where("lt.id = ?", opts.TemplateID).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !exists {
		return nil, errcodes.NotFound("Template")
	}

	now := time.Now()
	list := &models.UserList{
		CreatedAt:  now,
		UpdatedAt:  now,
		UserID:     opts.UserID,
		TemplateID: opts.TemplateID,
		ShareToken: uuid.NewString(),
	}

	_, err = svc.db.
		NewInsert().
		Model(list).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errcodes.DuplicateList()
		}
		return nil, errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("list created", logger.Data{
		"list_id":     list.ID,
		"user_id":     list.UserID,
		"template_id": list.TemplateID,
	})

	return list, nil
}

// AdoptTemplate returns the user's list for the template, creating it when
// the user doesn't have one yet. The bool reports whether it was created.
func (svc *Service) AdoptTemplate(ctx context.Context, userID, templateID int) (*models.UserList, bool, error) {
	list, err := svc.findUserList(ctx, userID, templateID)
	if err == nil {
		return list, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, errors.WithStack(err)
	}

	list, err = svc.CreateList(ctx, CreateListOptions{UserID: userID, TemplateID: templateID})
	if err != nil {
		if !errcodes.HasCode(err, "duplicate_list") {
			return nil, false, err
		}
		list, err = svc.findUserList(ctx, userID, templateID)
		if err != nil {
			return nil, false, errors.WithStack(err)
		}
		return list, false, nil
	}

	return list, true, nil
}

func (svc *Service) findUserList(ctx context.Context, userID, templateID int) (*models.UserList, error) {
	list := &models.UserList{}
	err := svc.db.
		NewSelect().
		Model(list).
		Where("ul.user_id = ?", userID).
		Where("ul.template_id = ?", templateID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return list, nil
}

type RetrieveListOptions struct {
	ID           *int
	ShareToken   *string
	IncludeItems bool
}

func (svc *Service) RetrieveList(ctx context.Context, opts RetrieveListOptions) (*models.UserList, error) {
	list := &models.UserList{}

	q := svc.db.
		NewSelect().
		Model(list).
		ColumnExpr("ul.*").
		ColumnExpr(itemCountExpr).
		Relation("Template").
		Relation("User")

	if opts.ID != nil {
		q = q.Where("ul.id = ?", *opts.ID)
	}
	if opts.ShareToken != nil {
		q = q.Where("ul.share_token = ?", *opts.ShareToken)
	}
	if opts.IncludeItems {
		q = q.Relation("Items", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("li.rank ASC")
		})
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("List")
		}
		return nil, errors.WithStack(err)
	}

	return list, nil
}

// RetrieveSharedList loads a list and its items by share token. No session
// is needed, since holding the token is the permission.
func (svc *Service) RetrieveSharedList(ctx context.Context, token string) (*models.UserList, error) {
	if token == "" {
		return nil, errcodes.NotFound("List")
	}
	return svc.RetrieveList(ctx, RetrieveListOptions{ShareToken: &token, IncludeItems: true})
}

type ListListsOptions struct {
	UserID       *int
	Category     *string
	Limit        *int
	Offset       *int
	includeTotal bool
}

func (svc *Service) ListLists(ctx context.Context, opts ListListsOptions) ([]*models.UserList, error) {
	lists, _, err := svc.listListsWithTotal(ctx, opts)
	return lists, errors.WithStack(err)
}

func (svc *Service) ListListsWithTotal(ctx context.Context, opts ListListsOptions) ([]*models.UserList, int, error) {
	opts.includeTotal = true
	return svc.listListsWithTotal(ctx, opts)
}

func (svc *Service) listListsWithTotal(ctx context.Context, opts ListListsOptions) ([]*models.UserList, int, error) {
	var lists []*models.UserList
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&lists).
		ColumnExpr("ul.*").
		ColumnExpr(itemCountExpr).
		Relation("Template").
		Relation("User").
		Order("ul.updated_at DESC", "ul.id DESC")

	if opts.UserID != nil {
		q = q.Where("ul.user_id = ?", *opts.UserID)
	}
	if opts.Category != nil {
		q = q.Where(`"template"."category" = ?`, *opts.Category)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return lists, total, nil
}

// DeleteList removes a list and, through the foreign key, its items.
func (svc *Service) DeleteList(ctx context.Context, listID, ownerID int) error {
	if ownerID == 0 {
		return errcodes.Unauthorized("Authentication required")
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		list, err := lockList(ctx, tx, listID)
		if err != nil {
			return err
		}
		if list.UserID != ownerID {
			return errcodes.Forbidden("Deleting this list")
		}

		_, err = tx.NewDelete().
			Model((*models.UserList)(nil)).
			Where("id = ?", listID).
			Exec(ctx)
		return errors.WithStack(err)
	})
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("list deleted", logger.Data{"list_id": listID, "user_id": ownerID})
	return nil
}

func (svc *Service) ListItems(ctx context.Context, listID int) ([]*models.ListItem, error) {
	var items []*models.ListItem
	err := svc.db.
		NewSelect().
		Model(&items).
		Where("li.list_id = ?", listID).
		Order("li.rank ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return items, nil
}

// ItemInput is the catalog data for a new list item.
type ItemInput struct {
	Title      string
	ExternalID *string
	CoverImage *string
	Subtitle   *string
	Year       *int
}

func newItem(listID, rank int, in ItemInput, now time.Time) (*models.ListItem, error) {
	title := htmlutil.StripInline(in.Title)
	if title == "" {
		return nil, errcodes.ValidationError("title is required")
	}
	return &models.ListItem{
		CreatedAt:  now,
		ListID:     listID,
		Title:      title,
		ExternalID: externalID(in.ExternalID),
		CoverImage: in.CoverImage,
		Subtitle:   htmlutil.StripInlinePtr(in.Subtitle),
		Year:       in.Year,
		Rank:       rank,
	}, nil
}

// externalID trims a catalog id. A blank id means the item has none, so it
// never collides with another blank one.
func externalID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// lockList bumps the list's version and loads it with its template. The
// update takes SQLite's write lock, so everything after it in the same
// transaction sees a list no other writer can change until commit.
func lockList(ctx context.Context, tx bun.Tx, listID int) (*models.UserList, error) {
	res, err := tx.NewUpdate().
		Model((*models.UserList)(nil)).
		Set("version = version + 1").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", listID).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if rows == 0 {
		return nil, errcodes.NotFound("List")
	}

	list := &models.UserList{}
	err = tx.NewSelect().
		Model(list).
		Relation("Template").
		Where("ul.id = ?", listID).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return list, nil
}

func countItems(ctx context.Context, tx bun.Tx, listID int) (int, error) {
	count, err := tx.NewSelect().
		Model((*models.ListItem)(nil)).
		Where("li.list_id = ?", listID).
		Count(ctx)
	return count, errors.WithStack(err)
}

// mutate runs fn in a transaction holding the list's write lock, after
// checking that ownerID owns the list. Any error rolls the whole step back.
func (svc *Service) mutate(ctx context.Context, operation string, listID, ownerID int, fn func(ctx context.Context, tx bun.Tx, list *models.UserList) error) error {
	if ownerID == 0 {
		return errcodes.Unauthorized("Authentication required")
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		list, err := lockList(ctx, tx, listID)
		if err != nil {
			return err
		}
		if list.UserID != ownerID {
			return errcodes.Forbidden("Editing this list")
		}
		return fn(ctx, tx, list)
	})
	metrics.RecordListMutation(operation, err)
	return err
}

type AddItemOptions struct {
	ListID  int
	OwnerID int
	Item    ItemInput
}

// AddItem appends one item at rank count+1.
func (svc *Service) AddItem(ctx context.Context, opts AddItemOptions) (*models.ListItem, error) {
	var item *models.ListItem
	opts.Item.ExternalID = externalID(opts.Item.ExternalID)

	err := svc.mutate(ctx, metrics.OperationAdd, opts.ListID, opts.OwnerID, func(ctx context.Context, tx bun.Tx, list *models.UserList) error {
		count, err := countItems(ctx, tx, list.ID)
		if err != nil {
			return err
		}
		if count >= list.Template.MaxCount {
			return errcodes.CapacityExceeded(list.Template.MaxCount - count)
		}

		if opts.Item.ExternalID != nil {
			exists, err := tx.NewSelect().
				Model((*models.ListItem)(nil)).
				Where("li.list_id = ?", list.ID).
				Where("li.external_id = ?", *opts.Item.ExternalID).
				Exists(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if exists {
				return errcodes.DuplicateItem()
			}
		}

		item, err = newItem(list.ID, count+1, opts.Item, time.Now())
		if err != nil {
			return err
		}

		_, err = tx.NewInsert().
			Model(item).
			Returning("*").
			Exec(ctx)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return errcodes.DuplicateItem()
			}
			return errors.WithStack(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

type AddItemsOptions struct {
	ListID  int
	OwnerID int
	Items   []ItemInput
	// ExpectedExistingCount is how many items the caller believes the list
	// holds. New items take the ranks right after it.
	ExpectedExistingCount int
}

// AddItems appends a batch in input order. Either every item is added or
// none is.
func (svc *Service) AddItems(ctx context.Context, opts AddItemsOptions) ([]*models.ListItem, error) {
	var items []*models.ListItem
	inputs := make([]ItemInput, len(opts.Items))
	for i, in := range opts.Items {
		in.ExternalID = externalID(in.ExternalID)
		inputs[i] = in
	}
	opts.Items = inputs

	err := svc.mutate(ctx, metrics.OperationAddBatch, opts.ListID, opts.OwnerID, func(ctx context.Context, tx bun.Tx, list *models.UserList) error {
		count, err := countItems(ctx, tx, list.ID)
		if err != nil {
			return err
		}
		if count != opts.ExpectedExistingCount {
			return errcodes.StaleList(opts.ExpectedExistingCount, count)
		}

		remaining := list.Template.MaxCount - count
		if len(opts.Items) > remaining {
			return errcodes.CapacityExceeded(remaining)
		}
		if len(opts.Items) == 0 {
			return nil
		}

		var externalIDs []string
		seen := make(map[string]struct{}, len(opts.Items))
		for _, in := range opts.Items {
			if in.ExternalID == nil {
				continue
			}
			if _, ok := seen[*in.ExternalID]; ok {
				return errcodes.DuplicateItem()
			}
			seen[*in.ExternalID] = struct{}{}
			externalIDs = append(externalIDs, *in.ExternalID)
		}
		if len(externalIDs) > 0 {
			exists, err := tx.NewSelect().
				Model((*models.ListItem)(nil)).
				Where("li.list_id = ?", list.ID).
				Where("li.external_id IN (?)", bun.In(externalIDs)).
				Exists(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if exists {
				return errcodes.DuplicateItem()
			}
		}

		now := time.Now()
		items = make([]*models.ListItem, 0, len(opts.Items))
		for i, in := range opts.Items {
			item, err := newItem(list.ID, count+i+1, in, now)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		_, err = tx.NewInsert().
			Model(&items).
			Returning("*").
			Exec(ctx)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return errcodes.DuplicateItem()
			}
			return errors.WithStack(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

type RemoveItemOptions struct {
	ListID  int
	ItemID  int
	OwnerID int
}

// RemoveItem deletes an item and closes the gap by moving every later item
// up one rank.
func (svc *Service) RemoveItem(ctx context.Context, opts RemoveItemOptions) error {
	return svc.mutate(ctx, metrics.OperationRemove, opts.ListID, opts.OwnerID, func(ctx context.Context, tx bun.Tx, list *models.UserList) error {
		item := &models.ListItem{}
		err := tx.NewSelect().
			Model(item).
			Where("li.id = ?", opts.ItemID).
			Where("li.list_id = ?", list.ID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Item")
			}
			return errors.WithStack(err)
		}

		_, err = tx.NewDelete().
			Model((*models.ListItem)(nil)).
			Where("id = ?", item.ID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		res, err := tx.NewUpdate().
			Model((*models.ListItem)(nil)).
			Set("rank = rank - 1").
			Where("list_id = ?", list.ID).
			Where("rank > ?", item.Rank).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		shifted, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		metrics.RecordRankShift(shifted)

		logger.FromContext(ctx).Info("rank shift applied", logger.Data{
			"list_id":      list.ID,
			"removed_rank": item.Rank,
			"shifted_rows": shifted,
		})
		return nil
	})
}

type ReorderItemsOptions struct {
	ListID  int
	OwnerID int
	// ItemIDs is every item of the list in its new order.
	ItemIDs []int
}

func (svc *Service) ReorderItems(ctx context.Context, opts ReorderItemsOptions) error {
	return svc.mutate(ctx, metrics.OperationReorder, opts.ListID, opts.OwnerID, func(ctx context.Context, tx bun.Tx, list *models.UserList) error {
		var current []int
		err := tx.NewSelect().
			Model((*models.ListItem)(nil)).
			Column("id").
			Where("li.list_id = ?", list.ID).
			Scan(ctx, &current)
		if err != nil {
			return errors.WithStack(err)
		}

		if err := checkPermutation(current, opts.ItemIDs); err != nil {
			return err
		}

		for i, itemID := range opts.ItemIDs {
			_, err := tx.NewUpdate().
				Model((*models.ListItem)(nil)).
				Set("rank = ?", i+1).
				Where("id = ?", itemID).
				Where("list_id = ?", list.ID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	})
}

// checkPermutation reports an InvalidReorder unless ordered holds each id
// in current exactly once.
func checkPermutation(current, ordered []int) error {
	if len(ordered) != len(current) {
		return errcodes.InvalidReorder(fmt.Sprintf("Expected %d item ids, got %d.", len(current), len(ordered)))
	}

	remaining := make(map[int]struct{}, len(current))
	for _, id := range current {
		remaining[id] = struct{}{}
	}
	for _, id := range ordered {
		if _, ok := remaining[id]; !ok {
			return errcodes.InvalidReorder(fmt.Sprintf("Item %d is not in this list or is listed twice.", id))
		}
		delete(remaining, id)
	}
	return nil
}
