package services

import (
	"github.com/igRoy3/SmartWasteManagement/entity"
	"github.com/igRoy3/SmartWasteManagement/repository"
)

// TaskService is the read side of collection tasks. Writes happen inside
// the transition engine's transactions.
type TaskService struct {
	repo *repository.TaskRepository
}

func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) ListAll(status, priority string) ([]entity.CollectionTask, error) {
	var tasks []entity.CollectionTask
	if err := s.repo.FindAll(status, priority, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) ListForCollector(collectorID uint, status string) ([]entity.CollectionTask, error) {
	var tasks []entity.CollectionTask
	if err := s.repo.FindByCollector(collectorID, status, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
