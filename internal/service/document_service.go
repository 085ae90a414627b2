package service

import (
	"context"
	"errors"
	"fmt"

	"MyHome/internal/config"
	"MyHome/internal/metrics"
	"MyHome/internal/model"
	"MyHome/internal/pkg"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentService struct {
	docs     DocumentStore
	members  MemberStore
	opts     pkg.CompressOptions
	maxBytes int64
	metrics  *metrics.Metrics
}

func NewDocumentService(st Stores, cfg config.FilesConfig, m *metrics.Metrics) *DocumentService {
	return &DocumentService{
		docs:    st.Documents,
		members: st.Members,
		opts: pkg.CompressOptions{
			BorderBytes:  cfg.CompressionBorderBytes(),
			MaxDimension: cfg.MaxImageDimension,
			Quality:      cfg.CompressedImageQuality,
			MaxPixels:    cfg.MaxImagePixels,
		},
		maxBytes: cfg.MaxFileBytes(),
		metrics:  m,
	}
}

// MaxBytes 允许上传的最大字节数
func (s *DocumentService) MaxBytes() int64 {
	return s.maxBytes
}

func (s *DocumentService) GetHouseMemberDocument(ctx context.Context, memberID string) (*model.HouseMemberDocument, error) {
	if _, err := s.members.FindByMemberID(ctx, memberID); err != nil {
		return nil, storeErr(err, "member")
	}
	doc, err := s.docs.FindByMemberID(ctx, memberID)
	if err != nil {
		return nil, storeErr(err, "document")
	}
	return doc, nil
}

// CreateHouseMemberDocument 住户已有证件时返回 409
func (s *DocumentService) CreateHouseMemberDocument(ctx context.Context, memberID string, data []byte) (*model.HouseMemberDocument, error) {
	if _, err := s.members.FindByMemberID(ctx, memberID); err != nil {
		return nil, storeErr(err, "member")
	}
	if _, err := s.docs.FindByMemberID(ctx, memberID); err == nil {
		return nil, fmt.Errorf("document %w", ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	doc, err := s.prepare(memberID, data)
	if err != nil {
		return nil, err
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, storeErr(err, "document")
	}
	return doc, nil
}

// UpdateHouseMemberDocument 覆盖已有证件，没有则新建
func (s *DocumentService) UpdateHouseMemberDocument(ctx context.Context, memberID string, data []byte) (*model.HouseMemberDocument, error) {
	if _, err := s.members.FindByMemberID(ctx, memberID); err != nil {
		return nil, storeErr(err, "member")
	}
	doc, err := s.prepare(memberID, data)
	if err != nil {
		return nil, err
	}
	if err := s.docs.Upsert(ctx, doc); err != nil {
		return nil, storeErr(err, "document")
	}
	return doc, nil
}

func (s *DocumentService) DeleteHouseMemberDocument(ctx context.Context, memberID string) error {
	if _, err := s.members.FindByMemberID(ctx, memberID); err != nil {
		return storeErr(err, "member")
	}
	return storeErr(s.docs.DeleteByMemberID(ctx, memberID), "document")
}

// prepare 校验大小并压缩
func (s *DocumentService) prepare(memberID string, data []byte) (*model.HouseMemberDocument, error) {
	if len(data) == 0 {
		return nil, badRequest("document is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", ErrPayloadTooLarge, s.maxBytes)
	}
	s.metrics.ObserveDocument("upload", len(data))

	content, err := pkg.CompressImage(data, s.opts)
	if errors.Is(err, pkg.ErrUnsupportedImage) {
		return nil, badRequest("document is not a supported image")
	}
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveDocument("stored", len(content))

	return &model.HouseMemberDocument{
		MemberID:         memberID,
		DocumentFilename: fmt.Sprintf("member_%s_%s.jpg", memberID, uuid.NewString()),
		DocumentContent:  content,
	}, nil
}
