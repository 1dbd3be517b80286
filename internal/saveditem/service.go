package saveditem

import "github.com/mbognou/shop-backend/internal/product"

// ProductGetter verifies that a product exists before it is saved.
type ProductGetter interface {
	GetByID(id int) (product.Product, error)
}

type Service struct {
	repo     Repository
	products ProductGetter
}

func NewService(repo Repository, products ProductGetter) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) ListProducts(userID int) ([]product.Product, error) {
	return s.repo.ListProducts(userID)
}

func (s *Service) Save(userID, productID int) error {
	if _, err := s.products.GetByID(productID); err != nil {
		return err
	}
	return s.repo.Save(userID, productID)
}

func (s *Service) Remove(userID, productID int) error {
	return s.repo.Remove(userID, productID)
}
