package sheetsync

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const sheetsAPIHost = "sheets.googleapis.com"

// APISink appends rows through the Google Sheets API with a service
// account, for deployments that do not use an Apps Script relay.
type APISink struct {
	values        *sheets.SpreadsheetsValuesService
	spreadsheetID string
	ranges        map[Kind]string
	limiter       *HostLimiter
}

type APISinkOptions struct {
	CredentialsFile   string
	SpreadsheetID     string
	ListingsRange     string
	RequirementsRange string
}

func NewAPISink(ctx context.Context, opts APISinkOptions, limiter *HostLimiter, extra ...option.ClientOption) (*APISink, error) {
	clientOpts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}
	clientOpts = append(clientOpts, extra...)

	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &APISink{
		values:        sheets.NewSpreadsheetsValuesService(svc),
		spreadsheetID: opts.SpreadsheetID,
		ranges: map[Kind]string{
			KindListing:     opts.ListingsRange,
			KindRequirement: opts.RequirementsRange,
		},
		limiter: limiter,
	}, nil
}

func (s *APISink) Name() string { return "sheets_api" }

func (s *APISink) Send(ctx context.Context, rec Record) error {
	rng := s.ranges[rec.Kind]
	row := rec.Row()
	if rng == "" || row == nil {
		return ErrNotConfigured
	}
	if s.limiter != nil {
		if err := s.limiter.WaitHost(ctx, sheetsAPIHost); err != nil {
			return err
		}
	}

	vr := &sheets.ValueRange{Values: [][]any{row}}
	_, err := s.values.Append(s.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("sheets append %s: %w", rng, err)
	}
	return nil
}
