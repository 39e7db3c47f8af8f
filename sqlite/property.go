package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/jbekker/capescout"
)

// Compile-time interface verification.
var _ capescout.PropertyService = (*PropertyService)(nil)

// Find pagination bounds.
const (
	DefaultFindLimit = 50
	MaxFindLimit     = 100
)

// propertyColumns is the SELECT list shared by every property query.
const propertyColumns = `id, title, area, price, bedrooms, bathrooms, size_sqm, property_type, url,
	images, highlights, neighborhood_vibe, description, status,
	listed_date, sold_date, withdrawn_date, sold_price,
	views, likes, scraped_at, selector_used`

// PropertyService implements capescout.PropertyService using SQLite.
type PropertyService struct {
	db      *DB
	catalog *capescout.AreaCatalog
}

// NewPropertyService creates a new PropertyService. The catalog supplies
// canned area metadata for imported records; nil uses the built-in areas.
func NewPropertyService(db *DB, catalog *capescout.AreaCatalog) *PropertyService {
	if catalog == nil {
		catalog = capescout.NewAreaCatalog()
	}
	return &PropertyService{db: db, catalog: catalog}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	b[0] = byte(h >> 56)
	b[1] = byte(h >> 48)
	b[2] = byte(h >> 40)
	b[3] = byte(h >> 32)
	b[4] = byte(h >> 24)
	b[5] = byte(h >> 16)
	b[6] = byte(h >> 8)
	b[7] = byte(h)
	return hex.EncodeToString(b)
}

// fingerprint serializes the scrape-derived fields of a property so
// re-imports can detect listings that haven't changed.
func fingerprint(p *capescout.Property) string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteByte('|')
	b.WriteString(p.Type)
	b.WriteByte('|')
	for _, n := range []*int{p.Price, p.Bedrooms, p.Bathrooms, p.SizeSqm} {
		if n != nil {
			fmt.Fprintf(&b, "%d", *n)
		}
		b.WriteByte('|')
	}
	b.WriteString(strings.Join(p.Images, ","))
	return b.String()
}

// CreateProperty creates a new property.
func (s *PropertyService) CreateProperty(ctx context.Context, p *capescout.Property) error {
	if p.Status == "" {
		p.Status = capescout.StatusAvailable
	}
	if p.Type == "" {
		p.Type = capescout.TypeProperty
	}
	if err := p.Validate(); err != nil {
		return err
	}

	p.ID = uuid.New().String()
	if p.ScrapedAt.IsZero() {
		p.ScrapedAt = time.Now().UTC()
	}
	if p.ListedDate == nil {
		listed := p.ScrapedAt
		p.ListedDate = &listed
	}

	return insertProperty(ctx, s.db, p)
}

// FindPropertyByID retrieves a property by ID.
func (s *PropertyService) FindPropertyByID(ctx context.Context, id string) (*capescout.Property, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+propertyColumns+" FROM properties WHERE id = ?", id)
	p, err := scanProperty(row)
	if err == sql.ErrNoRows {
		return nil, capescout.Errorf(capescout.ENOTFOUND, "property not found")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindProperties retrieves properties matching the filter, newest scrape
// first, along with the total count of matching rows.
func (s *PropertyService) FindProperties(ctx context.Context, filter capescout.PropertyFilter) ([]*capescout.Property, int, error) {
	var where strings.Builder
	var args []any

	where.WriteString(" FROM properties WHERE 1=1")
	if filter.Area != nil {
		where.WriteString(" AND area = ?")
		args = append(args, capescout.NormalizeArea(*filter.Area))
	}
	if filter.Status != nil {
		where.WriteString(" AND status = ?")
		args = append(args, *filter.Status)
	}
	if filter.MinPrice != nil {
		where.WriteString(" AND price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where.WriteString(" AND price <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if filter.Bedrooms != nil {
		where.WriteString(" AND bedrooms >= ?")
		args = append(args, *filter.Bedrooms)
	}
	if filter.Search != nil {
		pattern := "%" + strings.ToLower(*filter.Search) + "%"
		where.WriteString(" AND (LOWER(title) LIKE ? OR LOWER(area) LIKE ? OR LOWER(neighborhood_vibe) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*)"+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultFindLimit
	} else if limit > MaxFindLimit {
		limit = MaxFindLimit
	}

	var query strings.Builder
	query.WriteString("SELECT " + propertyColumns)
	query.WriteString(where.String())
	query.WriteString(" ORDER BY scraped_at DESC, id ASC")
	appendPagination(&query, &args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var props []*capescout.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		props = append(props, p)
	}

	return props, total, rows.Err()
}

// UpdateProperty updates lifecycle fields on an existing property.
func (s *PropertyService) UpdateProperty(ctx context.Context, id string, upd capescout.PropertyUpdate) (*capescout.Property, error) {
	p, err := s.FindPropertyByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Status != nil {
		p.Status = *upd.Status
	}
	if upd.Price != nil {
		p.Price = upd.Price
	}
	if upd.SoldPrice != nil {
		p.SoldPrice = upd.SoldPrice
	}
	if upd.SoldDate != nil {
		p.SoldDate = upd.SoldDate
	}
	if upd.WithdrawnDate != nil {
		p.WithdrawnDate = upd.WithdrawnDate
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}

	// Status transitions stamp their lifecycle date when the caller
	// didn't supply one.
	now := time.Now().UTC()
	if upd.Status != nil && p.Status == capescout.StatusSold && p.SoldDate == nil {
		p.SoldDate = &now
	}
	if upd.Status != nil && p.Status == capescout.StatusOffMarket && p.WithdrawnDate == nil {
		p.WithdrawnDate = &now
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE properties
		SET status = ?, price = ?, sold_price = ?, sold_date = ?, withdrawn_date = ?, description = ?
		WHERE id = ?
	`, p.Status, nullInt(p.Price), nullInt(p.SoldPrice), formatNullTime(p.SoldDate),
		formatNullTime(p.WithdrawnDate), p.Description, id)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// DeleteProperties removes properties by area and/or age cutoff and
// returns the number deleted.
func (s *PropertyService) DeleteProperties(ctx context.Context, del capescout.PropertyDelete) (int, error) {
	// Deleting everything requires an explicit criterion.
	if del.Area == nil && del.OlderThan == nil {
		return 0, capescout.Errorf(capescout.EINVALID, "delete requires an area or age cutoff")
	}

	var query strings.Builder
	var args []any
	query.WriteString("DELETE FROM properties WHERE 1=1")
	if del.Area != nil {
		query.WriteString(" AND area = ?")
		args = append(args, capescout.NormalizeArea(*del.Area))
	}
	if del.OlderThan != nil {
		query.WriteString(" AND scraped_at < ?")
		args = append(args, del.OlderThan.UTC().Format(time.RFC3339))
	}

	result, err := s.db.ExecContext(ctx, query.String(), args...)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

// ImportProperties upserts a batch of scraped records inside a single
// transaction. Records are matched to existing rows by listing URL: new
// URLs are inserted with canned area metadata filled in, known URLs are
// refreshed when their scrape fingerprint changed, and invalid records
// are counted as errors without aborting the batch.
func (s *PropertyService) ImportProperties(ctx context.Context, records []*capescout.Property) (*capescout.ImportStats, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stats := &capescout.ImportStats{}
	for _, rec := range records {
		outcome, err := s.importRecord(ctx, tx, rec)
		if err != nil {
			if capescout.ErrorCode(err) == capescout.EINVALID {
				stats.Errors++
				continue
			}
			return nil, err
		}
		switch outcome {
		case importCreated:
			stats.Created++
		case importUpdated:
			stats.Updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties").Scan(&stats.Total); err != nil {
		return nil, err
	}
	return stats, nil
}

type importOutcome int

const (
	importSkipped importOutcome = iota
	importCreated
	importUpdated
)

func (s *PropertyService) importRecord(ctx context.Context, tx *sql.Tx, rec *capescout.Property) (importOutcome, error) {
	if rec.URL == "" {
		return importSkipped, capescout.Errorf(capescout.EINVALID, "import record missing listing URL")
	}
	if err := rec.Validate(); err != nil {
		return importSkipped, err
	}
	// The type feeds the fingerprint, so default it before the
	// unchanged-listing comparison or re-imports of typeless records
	// would never match their stored hash.
	if rec.Type == "" {
		rec.Type = capescout.TypeProperty
	}

	var id, existingHash string
	err := tx.QueryRowContext(ctx, "SELECT id, content_hash FROM properties WHERE url = ?", rec.URL).Scan(&id, &existingHash)
	if err == sql.ErrNoRows {
		// New listing. Fill in the canned area metadata the listing
		// page doesn't carry.
		if len(rec.Highlights) == 0 {
			rec.Highlights = s.catalog.Highlights(rec.Area)
		}
		if rec.NeighborhoodVibe == "" {
			rec.NeighborhoodVibe = s.catalog.Vibe(rec.Area)
		}
		if rec.Status == "" {
			rec.Status = capescout.StatusAvailable
		}

		rec.ID = uuid.New().String()
		if rec.ScrapedAt.IsZero() {
			rec.ScrapedAt = time.Now().UTC()
		}
		if rec.ListedDate == nil {
			listed := rec.ScrapedAt
			rec.ListedDate = &listed
		}

		if err := insertProperty(ctx, tx, rec); err != nil {
			return importSkipped, err
		}
		return importCreated, nil
	}
	if err != nil {
		return importSkipped, err
	}

	// Known URL: skip when the scrape-derived fields are unchanged.
	hash := hashContent(fingerprint(rec))
	if hash == existingHash {
		return importSkipped, nil
	}

	images, err := encodeStrings(rec.Images)
	if err != nil {
		return importSkipped, err
	}
	scrapedAt := rec.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE properties
		SET price = ?, images = ?, scraped_at = ?, selector_used = ?, content_hash = ?
		WHERE id = ?
	`, nullInt(rec.Price), images, scrapedAt.UTC().Format(time.RFC3339), rec.SelectorUsed, hash, id)
	if err != nil {
		return importSkipped, err
	}
	return importUpdated, nil
}

// IncrementViews adds one view to a property and returns the new total.
func (s *PropertyService) IncrementViews(ctx context.Context, id string) (int, error) {
	return s.increment(ctx, "views", id)
}

// IncrementLikes adds one like to a property and returns the new total.
func (s *PropertyService) IncrementLikes(ctx context.Context, id string) (int, error) {
	return s.increment(ctx, "likes", id)
}

func (s *PropertyService) increment(ctx context.Context, column, id string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		"UPDATE properties SET "+column+" = "+column+" + 1 WHERE id = ? RETURNING "+column, id,
	).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, capescout.Errorf(capescout.ENOTFOUND, "property not found")
	}
	if err != nil {
		return 0, err
	}
	return total, nil
}

// AreaCounts returns stored property counts per area, largest first.
func (s *PropertyService) AreaCounts(ctx context.Context) ([]capescout.AreaCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT area, COUNT(*) AS n
		FROM properties
		GROUP BY area
		ORDER BY n DESC, area ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []capescout.AreaCount
	for rows.Next() {
		var c capescout.AreaCount
		if err := rows.Scan(&c.Area, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Stats returns aggregate scrape statistics.
func (s *PropertyService) Stats(ctx context.Context) (*capescout.ScrapeStats, error) {
	stats := &capescout.ScrapeStats{
		ByArea:   make(map[string]int),
		ByStatus: make(map[string]int),
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -7).Format(time.RFC3339)
	var last sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COUNT(CASE WHEN scraped_at >= ? THEN 1 END),
			MAX(scraped_at)
		FROM properties
	`, cutoff).Scan(&stats.TotalProperties, &stats.RecentScrapes7d, &last)
	if err != nil {
		return nil, err
	}
	if stats.LastScrape, err = parseNullRFC3339(last, "scraped_at"); err != nil {
		return nil, err
	}

	areaCounts, err := s.AreaCounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range areaCounts {
		stats.ByArea[c.Area] = c.Count
	}

	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM properties GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = n
	}
	return stats, rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertProperty writes a fully populated property row. It runs against
// either the DB or an import transaction.
func insertProperty(ctx context.Context, ex execer, p *capescout.Property) error {
	images, err := encodeStrings(p.Images)
	if err != nil {
		return err
	}
	highlights, err := encodeStrings(p.Highlights)
	if err != nil {
		return err
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO properties (id, title, area, price, bedrooms, bathrooms, size_sqm, property_type, url,
			images, highlights, neighborhood_vibe, description, status,
			listed_date, sold_date, withdrawn_date, sold_price,
			views, likes, scraped_at, selector_used, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Title, p.Area, nullInt(p.Price), nullInt(p.Bedrooms), nullInt(p.Bathrooms), nullInt(p.SizeSqm),
		p.Type, p.URL, images, highlights, p.NeighborhoodVibe, p.Description, p.Status,
		formatNullTime(p.ListedDate), formatNullTime(p.SoldDate), formatNullTime(p.WithdrawnDate), nullInt(p.SoldPrice),
		p.Views, p.Likes, p.ScrapedAt.UTC().Format(time.RFC3339), p.SelectorUsed, hashContent(fingerprint(p)))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProperty reads one property row. Works with both sql.Row and sql.Rows.
func scanProperty(row rowScanner) (*capescout.Property, error) {
	var p capescout.Property
	var price, bedrooms, bathrooms, sizeSqm, soldPrice sql.NullInt64
	var images, highlights, scrapedAt string
	var listedDate, soldDate, withdrawnDate sql.NullString

	if err := row.Scan(&p.ID, &p.Title, &p.Area, &price, &bedrooms, &bathrooms, &sizeSqm,
		&p.Type, &p.URL, &images, &highlights, &p.NeighborhoodVibe, &p.Description, &p.Status,
		&listedDate, &soldDate, &withdrawnDate, &soldPrice,
		&p.Views, &p.Likes, &scrapedAt, &p.SelectorUsed); err != nil {
		return nil, err
	}

	p.Price = scanNullInt(price)
	p.Bedrooms = scanNullInt(bedrooms)
	p.Bathrooms = scanNullInt(bathrooms)
	p.SizeSqm = scanNullInt(sizeSqm)
	p.SoldPrice = scanNullInt(soldPrice)

	var err error
	if p.Images, err = decodeStrings(images, "images"); err != nil {
		return nil, err
	}
	if p.Highlights, err = decodeStrings(highlights, "highlights"); err != nil {
		return nil, err
	}
	if p.ListedDate, err = parseNullRFC3339(listedDate, "listed_date"); err != nil {
		return nil, err
	}
	if p.SoldDate, err = parseNullRFC3339(soldDate, "sold_date"); err != nil {
		return nil, err
	}
	if p.WithdrawnDate, err = parseNullRFC3339(withdrawnDate, "withdrawn_date"); err != nil {
		return nil, err
	}
	if p.ScrapedAt, err = parseRFC3339(scrapedAt, "scraped_at"); err != nil {
		return nil, err
	}

	return &p, nil
}
