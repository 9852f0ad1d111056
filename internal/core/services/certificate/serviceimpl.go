package certificate

import (
	"context"
	"fmt"
	"strings"

	"gitlab.com/codebounty.net/internal/core/ports/primary"
	"gitlab.com/codebounty.net/internal/core/ports/secondary"
	"gitlab.com/codebounty.net/internal/core/services/enrollment"
	"gitlab.com/codebounty.net/internal/domain"
	"gitlab.com/codebounty.net/internal/metrics"
	"gitlab.com/codebounty.net/internal/static/errs"
)

var _ ICertificateService = (*CertificateService)(nil)

type CertificateService struct {
	contract    secondary.CertificateContract
	enrollments enrollment.IEnrollmentService
	explorerUrl string
	metrics     *metrics.Metrics
	logger      primary.Logger
}

func NewCertificateService(
	contract secondary.CertificateContract,
	enrollments enrollment.IEnrollmentService,
	explorerUrl string,
	m *metrics.Metrics,
	logger primary.Logger,
) *CertificateService {
	return &CertificateService{
		contract:    contract,
		enrollments: enrollments,
		explorerUrl: strings.TrimSuffix(explorerUrl, "/"),
		metrics:     m,
		logger:      logger,
	}
}

func (s *CertificateService) HasMinted(ctx context.Context, address string) (bool, error) {
	if s.contract == nil {
		return false, errs.ChainUnavailable
	}
	minted, err := s.contract.HasMinted(ctx, address)
	if err != nil {
		s.logger.Error("Failed to check mint status", "address", address, "error", err)
		return false, err
	}
	return minted, nil
}

func (s *CertificateService) Mint(ctx context.Context, req *domain.MintRequest) (*domain.MintReceipt, error) {
	if s.contract == nil {
		return nil, errs.ChainUnavailable
	}

	completed, err := s.enrollments.IsCompleted(ctx, req.OCId, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !completed {
		return nil, errs.CourseNotCompleted
	}

	minted, err := s.HasMinted(ctx, req.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.MintFailed, err)
	}
	if minted {
		return nil, errs.AlreadyMinted
	}

	s.logger.Info("Minting certificate", "OCId", req.OCId, "courseId", req.CourseID, "address", req.Address)
	receipt, err := s.contract.MintCertificate(ctx, req.Address, req.MetadataIndex)
	if err != nil {
		s.metrics.ObserveMint(false)
		s.logger.Error("Failed to mint certificate", "address", req.Address, "error", err)
		return nil, fmt.Errorf("%w: %w", errs.MintFailed, err)
	}

	s.metrics.ObserveMint(true)
	return &domain.MintReceipt{
		Address:     req.Address,
		ExplorerUrl: fmt.Sprintf("%s/tx/%s", s.explorerUrl, receipt.TxHash),
		TxReceipt:   *receipt,
	}, nil
}
