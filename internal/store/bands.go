package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tcupmn/tcup-scrape/internal/show"
)

// UpsertBand returns the band's id and whether it was newly created. An
// existing band with no social links gets b.SocialLinks filled in.
func (s *Store) UpsertBand(ctx context.Context, b show.Band) (int64, bool, error) {
	return upsertBand(ctx, s.db, b)
}

func upsertBand(ctx context.Context, q querier, b show.Band) (int64, bool, error) {
	links, err := encodeLinks(b.SocialLinks)
	if err != nil {
		return 0, false, err
	}

	var id int64
	err = q.queryRow(ctx,
		`INSERT INTO bands (band, social_links) VALUES ($1, $2) ON CONFLICT (band) DO NOTHING RETURNING id`,
		b.Name, nullable(links)).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !isNoRows(err) {
		return 0, false, fmt.Errorf("failed to insert band %s: %w", b.Name, err)
	}

	var stored string
	err = q.queryRow(ctx,
		`SELECT id, COALESCE(social_links, '') FROM bands WHERE band = $1`, b.Name).Scan(&id, &stored)
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up band %s: %w", b.Name, err)
	}

	if links != "" && (stored == "" || stored == "{}") {
		if err := q.exec(ctx, `UPDATE bands SET social_links = $1 WHERE id = $2`, links, id); err != nil {
			return 0, false, fmt.Errorf("failed to update social links for %s: %w", b.Name, err)
		}
	}
	return id, false, nil
}

// LinkBand records that a band plays a show. Linking twice is a no-op.
func (s *Store) LinkBand(ctx context.Context, bandID, showID int64) error {
	return linkBand(ctx, s.db, bandID, showID)
}

func linkBand(ctx context.Context, q querier, bandID, showID int64) error {
	err := q.exec(ctx,
		`INSERT INTO show_bands (band_id, show_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		bandID, showID)
	if err != nil {
		return fmt.Errorf("failed to link band %d to show %d: %w", bandID, showID, err)
	}
	return nil
}

func encodeLinks(links map[string]string) (string, error) {
	if len(links) == 0 {
		return "", nil
	}
	data, err := json.Marshal(links)
	if err != nil {
		return "", fmt.Errorf("failed to encode social links: %w", err)
	}
	return string(data), nil
}

func decodeLinks(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	var links map[string]string
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil
	}
	return links
}
