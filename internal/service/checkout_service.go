package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wpshift/membership_go_server/internal/repository"
)

var ErrMissingRequiredField = errors.New("缺少必填的下单字段")

type CheckoutService struct {
	checkoutRepo   *repository.CheckoutFieldRepository
	orderRepo      *repository.OrderRepository
	requiredFields []string
}

func NewCheckoutService(
	checkoutRepo *repository.CheckoutFieldRepository,
	orderRepo *repository.OrderRepository,
	requiredFields []string,
) *CheckoutService {
	return &CheckoutService{
		checkoutRepo:   checkoutRepo,
		orderRepo:      orderRepo,
		requiredFields: requiredFields,
	}
}

// SaveFields 校验并保存下单附加字段
func (s *CheckoutService) SaveFields(orderID int64, fields map[string]string) error {
	if _, err := s.orderRepo.GetByID(orderID); err != nil {
		return err
	}

	for _, required := range s.requiredFields {
		value, ok := fields[required]
		if !ok || strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingRequiredField, required)
		}
	}

	return s.checkoutRepo.SaveFields(orderID, fields)
}

// GetFields 获取订单的全部附加字段
func (s *CheckoutService) GetFields(orderID int64) (map[string]string, error) {
	return s.checkoutRepo.GetFieldsByOrderID(orderID)
}
