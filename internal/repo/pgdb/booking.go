package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/internal/repo/repo_errors"
	"marketplace-matching-api/pkg/postgres"
	"math/rand"
	"time"
)

// BookingRepo is the postgres-backed booking factory. Booking lifecycle
// beyond creation is owned elsewhere; this core only converts a winning
// bid into a booking row.
type BookingRepo struct {
	*postgres.Postgres
}

func NewBookingRepo(pgdb *postgres.Postgres) *BookingRepo {
	return &BookingRepo{pgdb}
}

const bookingTokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func newBookingNumber() string {
	token := make([]byte, 9)
	for i := range token {
		token[i] = bookingTokenAlphabet[rand.Intn(len(bookingTokenAlphabet))]
	}

	return fmt.Sprintf("BKG-%d-%s", time.Now().UnixMilli(), token)
}

func (r *BookingRepo) CreateFromAuction(ctx context.Context, auctionId string, bidId string) (*entity.Booking, error) {
	getPartiesSql, args, _ := r.SqlBuilder.
		Select("auctions.consumer_id", "auction_bids.provider_id", "auction_bids.proposed_price").
		From("auctions").
		InnerJoin("auction_bids ON auction_bids.auction_id = auctions.id").
		Where("auctions.id = ?", auctionId).
		Where("auction_bids.id = ?", bidId).
		ToSql()

	var booking entity.Booking
	err := r.Database.QueryRowContext(ctx, getPartiesSql, args...).
		Scan(&booking.ConsumerId, &booking.ProviderId, &booking.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	booking.BookingNumber = newBookingNumber()
	booking.Status = "pending"

	createBookingSql, args, _ := r.SqlBuilder.
		Insert("bookings").
		Columns("booking_number", "auction_id", "bid_id", "consumer_id", "provider_id", "price", "status").
		Values(booking.BookingNumber, auctionId, bidId, booking.ConsumerId, booking.ProviderId,
			booking.Price, booking.Status).
		Suffix("RETURNING id, auction_id, bid_id, created_at").
		ToSql()

	var createdAt time.Time
	err = r.Database.QueryRowContext(ctx, createBookingSql, args...).
		Scan(&booking.Id, &booking.AuctionId, &booking.BidId, &createdAt)
	if err != nil {
		return nil, err
	}
	booking.CreatedAt = formatTime(createdAt)

	return &booking, nil
}
