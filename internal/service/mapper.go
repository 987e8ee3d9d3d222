package service

import (
	"marketplace-matching-api/internal/entity"
)

func mapAuction(a *entity.Auction) *entity.AuctionOutputModel {
	out := &entity.AuctionOutputModel{
		Id:                  a.Id.String(),
		AuctionNumber:       a.AuctionNumber,
		ConsumerId:          a.ConsumerId.String(),
		ServiceTitle:        a.ServiceTitle,
		ServiceDescription:  a.ServiceDescription,
		ServiceRequirements: a.ServiceRequirements,
		ServiceLocation:     a.ServiceLocation,
		LocationLatitude:    a.LocationLatitude,
		LocationLongitude:   a.LocationLongitude,
		PreferredDate:       a.PreferredDate,
		PreferredTime:       a.PreferredTime,
		Deadline:            a.Deadline,
		BudgetMin:           a.BudgetMin,
		BudgetMax:           a.BudgetMax,
		AiFairPrice:         a.AiFairPrice,
		Photos:              a.Photos,
		Documents:           a.Documents,
		AutoSelectEnabled:   a.AutoSelectEnabled,
		MaxBidsToReceive:    a.MaxBidsToReceive,
		Status:              a.Status,
		TotalViews:          a.TotalViews,
		TotalBids:           a.TotalBids,
		SelectionReason:     a.SelectionReason,
		SelectedAt:          a.SelectedAt,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
		ExpiredAt:           a.ExpiredAt,
	}
	if a.ServiceCategoryId != nil {
		out.ServiceCategoryId = a.ServiceCategoryId.String()
	}
	if a.SelectedBidId != nil {
		out.SelectedBidId = a.SelectedBidId.String()
	}

	return out
}

func mapAuctions(auctions []entity.Auction) []entity.AuctionOutputModel {
	s := make([]entity.AuctionOutputModel, 0)
	for _, auction := range auctions {
		s = append(s, *mapAuction(&auction))
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:                     b.Id.String(),
		AuctionId:              b.AuctionId.String(),
		ProviderId:             b.ProviderId.String(),
		ProposedPrice:          b.ProposedPrice,
		EstimatedDuration:      b.EstimatedDuration,
		WorkPlan:               b.WorkPlan,
		PortfolioItems:         b.PortfolioItems,
		ProposedStartDate:      b.ProposedStartDate,
		ProposedCompletionDate: b.ProposedCompletionDate,
		AdditionalComment:      b.AdditionalComment,
		CreditsSpent:           b.CreditsSpent,
		AiMatchScore:           b.AiMatchScore,
		AiRecommendation:       b.AiRecommendation,
		Status:                 b.Status,
		SubmittedAt:            b.SubmittedAt,
		ReviewedAt:             b.ReviewedAt,
		SelectedAt:             b.SelectedAt,
		WithdrawalReason:       b.WithdrawalReason,
		CreatedAt:              b.CreatedAt,
	}
}

func mapBids(bids []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, bid := range bids {
		s = append(s, *mapBid(&bid))
	}

	return s
}

func mapSession(q *entity.QuotationSession) *entity.SessionOutputModel {
	out := &entity.SessionOutputModel{
		Id:                  q.Id.String(),
		UserId:              q.UserId.String(),
		SessionNumber:       q.SessionNumber,
		Status:              q.Status,
		ConversationHistory: q.ConversationHistory,
		ServiceCategory:     q.ServiceCategory,
		ServiceDescription:  q.ServiceDescription,
		Location:            q.Location,
		PreferredDate:       q.PreferredDate,
		PreferredTime:       q.PreferredTime,
		BudgetRangeMin:      q.BudgetRangeMin,
		BudgetRangeMax:      q.BudgetRangeMax,
		SpecialRequirements: q.SpecialRequirements,
		Photos:              q.Photos,
		EstimatedPrice:      q.EstimatedPrice,
		EstimatedDuration:   q.EstimatedDuration,
		ConfidenceScore:     q.ConfidenceScore,
		ConvertedToAuction:  q.ConvertedToAuction,
		CreatedAt:           q.CreatedAt,
		CompletedAt:         q.CompletedAt,
	}
	if q.AuctionId != nil {
		out.AuctionId = q.AuctionId.String()
	}

	return out
}

func mapSessions(sessions []entity.QuotationSession) []entity.SessionOutputModel {
	s := make([]entity.SessionOutputModel, 0)
	for _, session := range sessions {
		s = append(s, *mapSession(&session))
	}

	return s
}

func mapBooking(b *entity.Booking) *entity.BookingOutputModel {
	return &entity.BookingOutputModel{
		Id:            b.Id.String(),
		BookingNumber: b.BookingNumber,
		AuctionId:     b.AuctionId.String(),
		BidId:         b.BidId.String(),
		ConsumerId:    b.ConsumerId.String(),
		ProviderId:    b.ProviderId.String(),
		Price:         b.Price,
		Status:        b.Status,
		CreatedAt:     b.CreatedAt,
	}
}
