package service

import (
	"context"
	"errors"

	"github.com/munyanyaguo/Hisi-Studio/internal/dao"
	"github.com/munyanyaguo/Hisi-Studio/internal/model"
	"github.com/munyanyaguo/Hisi-Studio/pkg/e"

	"gorm.io/gorm"
)

type AddressService struct {
	addressDao *dao.AddressDao
}

func NewAddressService(addressDao *dao.AddressDao) *AddressService {
	return &AddressService{addressDao: addressDao}
}

type AddressRequest struct {
	FullName      string `json:"full_name" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	AddressLine1  string `json:"address_line1" binding:"required"`
	AddressLine2  string `json:"address_line2"`
	City          string `json:"city" binding:"required"`
	StateProvince string `json:"state_province"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"`
	AddressType   string `json:"address_type"`
	IsDefault     bool   `json:"is_default"`
}

func (s *AddressService) ListAddresses(ctx context.Context, userID string) ([]*model.UserAddress, error) {
	addrs, err := s.addressDao.ListAddresses(ctx, userID)
	if err != nil {
		return nil, e.Internal(err)
	}
	return addrs, nil
}

// CreateAddress saves an address. The user's first address becomes the
// default automatically.
func (s *AddressService) CreateAddress(ctx context.Context, userID string, req *AddressRequest) (*model.UserAddress, error) {
	count, err := s.addressDao.CountAddresses(ctx, userID)
	if err != nil {
		return nil, e.Internal(err)
	}

	country := req.Country
	if country == "" {
		country = "Kenya"
	}
	addrType := req.AddressType
	if addrType == "" {
		addrType = "both"
	}

	addr := &model.UserAddress{
		UserID:        userID,
		FullName:      req.FullName,
		Phone:         req.Phone,
		AddressLine1:  req.AddressLine1,
		AddressLine2:  req.AddressLine2,
		City:          req.City,
		StateProvince: req.StateProvince,
		PostalCode:    req.PostalCode,
		Country:       country,
		AddressType:   addrType,
		IsDefault:     count == 0,
	}
	if err := s.addressDao.CreateAddress(ctx, addr); err != nil {
		return nil, e.Internal(err)
	}

	if req.IsDefault && !addr.IsDefault {
		if err := s.addressDao.SetDefault(ctx, addr.ID, userID); err != nil {
			return nil, e.Internal(err)
		}
		addr.IsDefault = true
	}
	return addr, nil
}

func (s *AddressService) UpdateAddress(ctx context.Context, addressID, userID string, req *AddressRequest) (*model.UserAddress, error) {
	if _, err := s.addressDao.GetAddressOwned(ctx, addressID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("address")
		}
		return nil, e.Internal(err)
	}

	updates := map[string]interface{}{
		"full_name":      req.FullName,
		"phone":          req.Phone,
		"address_line1":  req.AddressLine1,
		"address_line2":  req.AddressLine2,
		"city":           req.City,
		"state_province": req.StateProvince,
		"postal_code":    req.PostalCode,
	}
	if req.Country != "" {
		updates["country"] = req.Country
	}
	if req.AddressType != "" {
		updates["address_type"] = req.AddressType
	}
	if err := s.addressDao.UpdateAddress(ctx, addressID, userID, updates); err != nil {
		return nil, e.Internal(err)
	}

	if req.IsDefault {
		if err := s.addressDao.SetDefault(ctx, addressID, userID); err != nil {
			return nil, e.Internal(err)
		}
	}
	return s.addressDao.GetAddressOwned(ctx, addressID, userID)
}

func (s *AddressService) DeleteAddress(ctx context.Context, addressID, userID string) error {
	rows, err := s.addressDao.DeleteAddress(ctx, addressID, userID)
	if err != nil {
		return e.Internal(err)
	}
	if rows == 0 {
		return e.NotFound("address")
	}
	return nil
}

// SetDefault makes one address the default; the single-statement DAO
// update guarantees at most one default survives.
func (s *AddressService) SetDefault(ctx context.Context, addressID, userID string) (*model.UserAddress, error) {
	if _, err := s.addressDao.GetAddressOwned(ctx, addressID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, e.NotFound("address")
		}
		return nil, e.Internal(err)
	}
	if err := s.addressDao.SetDefault(ctx, addressID, userID); err != nil {
		return nil, e.Internal(err)
	}
	return s.addressDao.GetAddressOwned(ctx, addressID, userID)
}
