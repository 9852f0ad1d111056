package certificate

import (
	"context"

	"gitlab.com/codebounty.net/internal/domain"
)

type ICertificateService interface {
	HasMinted(ctx context.Context, address string) (bool, error)

	// Mint issues the course certificate NFT once per address, only for completed courses.
	Mint(ctx context.Context, req *domain.MintRequest) (*domain.MintReceipt, error)
}
