package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-pomodoro-planner/config"
	"github.com/oksasatya/go-pomodoro-planner/internal/application"
	"github.com/oksasatya/go-pomodoro-planner/internal/container"
	"github.com/oksasatya/go-pomodoro-planner/internal/domain/entity"
	"github.com/oksasatya/go-pomodoro-planner/pkg/apperr"
	"github.com/oksasatya/go-pomodoro-planner/pkg/helpers"
)

// seed creates a demo user with a few tasks and time blocks. Safe to re-run.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize")
	}
	defer c.Close()

	email := "demo@example.com"
	password := "password123"

	u, err := c.UserService.Create(ctx, application.AuthInput{Email: email, Password: password})
	if apperr.Is(err, apperr.KindBadRequest) {
		fmt.Printf("user %s already seeded\n", email)
		return
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to seed user")
	}
	name := "Demo User"
	if _, err := c.UserService.Update(ctx, u.ID, application.UpdateUserInput{Name: &name}); err != nil {
		logger.WithError(err).Fatal("failed to name user")
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)

	high, low := entity.PriorityHigh, entity.PriorityLow
	for _, in := range []application.CreateTaskInput{
		{Name: "Plan the week", Priority: &high},
		{Name: "Inbox zero", Priority: &low},
		{Name: "Read one chapter"},
	} {
		if _, err := c.TaskService.Create(ctx, u.ID, in); err != nil {
			logger.WithError(err).Fatalf("failed to seed task %q", in.Name)
		}
	}

	blue := "#3b82f6"
	for _, in := range []application.CreateTimeBlockInput{
		{Name: "Deep work", Duration: 90, Color: &blue},
		{Name: "Lunch", Duration: 45},
		{Name: "Email", Duration: 30},
	} {
		if _, err := c.TimeBlockService.Create(ctx, u.ID, in); err != nil {
			logger.WithError(err).Fatalf("failed to seed time block %q", in.Name)
		}
	}
	if _, err := c.PomodoroService.Create(ctx, u.ID); err != nil {
		logger.WithError(err).Fatal("failed to seed pomodoro session")
	}
	fmt.Println("seeded tasks, time blocks and today's pomodoro session")
}
