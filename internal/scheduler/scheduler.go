package scheduler

import (
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Task is a named job run on a fixed interval
type Task struct {
	Name     string
	Interval time.Duration
	Run      func()
}

// Scheduler manages periodic execution of maintenance tasks
type Scheduler struct {
	tasks    []Task
	logger   *logrus.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential job execution
}

// NewScheduler creates a new scheduler. Tasks with a non-positive interval are skipped.
func NewScheduler(logger *logrus.Logger, tasks ...Task) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	active := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Interval <= 0 || task.Run == nil {
			logger.WithField("task", task.Name).Debug("Task disabled")
			continue
		}
		active = append(active, task)
	}

	return &Scheduler{
		tasks:    active,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	for _, task := range s.tasks {
		s.wg.Add(1)
		go s.runTask(task)
	}
	s.logger.WithField("tasks", len(s.tasks)).Info("Scheduler started")
}

func (s *Scheduler) runTask(task Task) {
	defer s.wg.Done()

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.execute(task)
		}
	}
}

func (s *Scheduler) execute(task Task) {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	start := time.Now()
	task.Run()
	s.logger.WithFields(logrus.Fields{
		"task":     task.Name,
		"duration": time.Since(start).String(),
	}).Debug("Completed scheduled task")
}

// Stop halts all tasks and waits for running ones to finish. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}
