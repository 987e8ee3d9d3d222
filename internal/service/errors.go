package service

import "errors"

var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrBidNotFound     = errors.New("bid not found")
	ErrSessionNotFound = errors.New("quotation session not found")

	ErrProviderProfileNotFound = errors.New("provider profile not found, complete your provider profile first")
	ErrAuctionNotAcceptingBids = errors.New("auction is not accepting bids")
	ErrBidAlreadyExists        = errors.New("a bid for this auction has already been submitted by this provider")

	ErrBidAlreadySelected   = errors.New("auction already has a selected bid")
	ErrBidStatusNotAllowed  = errors.New("requested bid status is not allowed from this operation")
	ErrSelectedBidImmutable = errors.New("can't change status of a selected bid")

	ErrSessionNotOwned         = errors.New("quotation session belongs to another user")
	ErrSessionAlreadyConverted = errors.New("quotation session already converted to auction")

	// ErrBookingFailed wraps a booking factory error after the
	// selection has been compensated.
	ErrBookingFailed = errors.New("failed to create booking")
)
