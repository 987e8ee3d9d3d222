package service

import (
	"context"
	"errors"
	"marketplace-matching-api/internal/common"
	"marketplace-matching-api/internal/entity"
	"marketplace-matching-api/internal/repo"
	"marketplace-matching-api/internal/repo/repo_errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	messageRoleUser      = "user"
	messageRoleAssistant = "assistant"

	// Reply appended after every user message until a real intake
	// assistant is plugged in.
	assistantAckReply = "Thank you for your message. I will process this information."

	// Longest title an auction record accepts.
	maxAuctionTitleLen = 255

	fallbackAuctionTitle = "Service Request"
)

type SessionService struct {
	sessionRepo repo.QuotationSession
	auctions    Auction
	log         *zap.Logger
}

func NewSessionService(deps *Deps, auctions Auction) *SessionService {
	return &SessionService{
		sessionRepo: deps.Repos.QuotationSession,
		auctions:    auctions,
		log:         deps.Logger,
	}
}

func (s *SessionService) CreateSession(ctx context.Context, userId string, input *entity.CreateSessionInput) (*entity.SessionOutputModel, error) {
	input.UserId = userId
	input.SessionNumber = newTrackingNumber("Q")
	input.Status = common.SessionInProgress

	id, err := s.sessionRepo.CreateSession(ctx, input)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetSessionById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapSession(session), nil
}

func (s *SessionService) ListSessions(ctx context.Context, userId string) (*entity.SessionListOutput, error) {
	sessions, total, err := s.sessionRepo.ListSessionsByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	return &entity.SessionListOutput{Items: mapSessions(sessions), Total: total}, nil
}

func (s *SessionService) GetSessionById(ctx context.Context, sessionId string) (*entity.SessionOutputModel, error) {
	session, err := s.sessionRepo.GetSessionById(ctx, sessionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrSessionNotFound
		}

		return nil, err
	}

	return mapSession(session), nil
}

// AddMessage appends the user's message and a canned assistant reply to
// the session's conversation history.
func (s *SessionService) AddMessage(ctx context.Context, sessionId string, userId string, message string, metadata map[string]string) (*entity.SessionOutputModel, error) {
	session, err := s.ownedSession(ctx, sessionId, userId)
	if err != nil {
		return nil, err
	}

	now := time.Now().Format(time.RFC3339)
	messages := []entity.ConversationMessage{
		{Role: messageRoleUser, Message: message, Timestamp: now, Metadata: metadata},
		{Role: messageRoleAssistant, Message: assistantAckReply, Timestamp: now},
	}
	if err := s.sessionRepo.AppendMessages(ctx, session.Id.String(), messages); err != nil {
		return nil, err
	}

	updated, err := s.sessionRepo.GetSessionById(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	return mapSession(updated), nil
}

func (s *SessionService) CompleteSession(ctx context.Context, sessionId string, userId string) (*entity.SessionOutputModel, error) {
	session, err := s.ownedSession(ctx, sessionId, userId)
	if err != nil {
		return nil, err
	}

	if err := s.sessionRepo.CompleteSession(ctx, session.Id.String()); err != nil {
		return nil, err
	}

	updated, err := s.sessionRepo.GetSessionById(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	return mapSession(updated), nil
}

// ConvertToAuction turns a finished intake session into a draft auction.
// A session converts at most once; the store-level guard makes the
// conversion mark one-shot under concurrency.
func (s *SessionService) ConvertToAuction(ctx context.Context, sessionId string, userId string) (*entity.ConversionOutput, error) {
	session, err := s.ownedSession(ctx, sessionId, userId)
	if err != nil {
		return nil, err
	}
	if session.ConvertedToAuction {
		return nil, ErrSessionAlreadyConverted
	}

	input := &entity.CreateAuctionInput{
		ServiceCategoryId:   auctionCategoryFromSession(session.ServiceCategory, s.log),
		ServiceTitle:        auctionTitleFromDescription(session.ServiceDescription),
		ServiceDescription:  session.ServiceDescription,
		ServiceRequirements: session.SpecialRequirements,
		ServiceLocation:     session.Location,
		PreferredTime:       session.PreferredTime,
		BudgetMin:           session.BudgetRangeMin,
		BudgetMax:           session.BudgetRangeMax,
		AiFairPrice:         session.EstimatedPrice,
		Photos:              session.Photos,
	}
	if session.PreferredDate != nil {
		input.PreferredDate = *session.PreferredDate
	}

	auction, err := s.auctions.CreateAuction(ctx, session.UserId.String(), input)
	if err != nil {
		return nil, err
	}

	auctionId, err := uuid.Parse(auction.Id)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.MarkConverted(ctx, sessionId, auctionId); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			// Lost the conversion race. The auction created above is an
			// orphan draft; flag it for cleanup rather than failing the
			// whole store.
			s.log.Warn("session conversion raced, orphan draft auction created",
				zap.String("sessionId", sessionId), zap.String("auctionId", auction.Id))

			return nil, ErrSessionAlreadyConverted
		}

		return nil, err
	}

	updated, err := s.sessionRepo.GetSessionById(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	return &entity.ConversionOutput{Session: mapSession(updated), Auction: auction}, nil
}

func (s *SessionService) ownedSession(ctx context.Context, sessionId string, userId string) (*entity.QuotationSession, error) {
	session, err := s.sessionRepo.GetSessionById(ctx, sessionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrSessionNotFound
		}

		return nil, err
	}
	if session.UserId.String() != userId {
		return nil, ErrSessionNotOwned
	}

	return session, nil
}

// auctionCategoryFromSession carries the session's category into the
// auction. Sessions store the category as free text while auctions
// reference a category id, so anything that isn't an id is dropped
// with a warning instead of failing the conversion.
func auctionCategoryFromSession(serviceCategory string, log *zap.Logger) string {
	if serviceCategory == "" {
		return ""
	}
	if _, err := uuid.Parse(serviceCategory); err != nil {
		log.Warn("session category is not a category id, converting without one",
			zap.String("serviceCategory", serviceCategory))

		return ""
	}

	return serviceCategory
}

// auctionTitleFromDescription derives the auction title from the intake
// description, truncated to the title column's limit.
func auctionTitleFromDescription(description string) string {
	if description == "" {
		return fallbackAuctionTitle
	}

	runes := []rune(description)
	if len(runes) > maxAuctionTitleLen {
		return string(runes[:maxAuctionTitleLen])
	}

	return description
}
