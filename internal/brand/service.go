package brand

type Service struct {
	repo Repository
}

type ServiceInterface interface {
	List() ([]Brand, error)
	ListFeatured() ([]Brand, error)
	GetByID(id int) (Brand, error)
	Create(b Brand) (Brand, error)
	Update(id int, b Brand) (Brand, error)
	Delete(id int) error
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]Brand, error) {
	return s.repo.List()
}

func (s *Service) ListFeatured() ([]Brand, error) {
	return s.repo.ListFeatured()
}

func (s *Service) GetByID(id int) (Brand, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(b Brand) (Brand, error) {
	b.Slug = Slugify(b.Name)
	if b.Status == "" {
		b.Status = StatusActive
	}
	return s.repo.Create(b)
}

func (s *Service) Update(id int, b Brand) (Brand, error) {
	b.Slug = Slugify(b.Name)
	return s.repo.Update(id, b)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
