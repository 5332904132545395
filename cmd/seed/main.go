package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quizzone/internal/config"
	"quizzone/internal/model"
	"quizzone/internal/repository"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	repo := repository.NewQuestionSetRepo(client.Database(cfg.MongoDatabase))

	qs := &model.QuestionSet{
		Name: "General Knowledge Warm-Up",
		Questions: []model.Question{
			{
				Text:            "Which planet has the most moons?",
				Options:         []string{"Earth", "Mars", "Saturn", "Venus"},
				CorrectOption:   2,
				IntroDurationMs: 3000,
			},
			{
				Text:          "In which year did the Berlin Wall fall?",
				Options:       []string{"1987", "1989", "1991", "1993"},
				CorrectOption: 1,
			},
			{
				Text:            "Which of these composers was born in Venice?",
				Options:         []string{"Verdi", "Puccini", "Vivaldi", "Rossini"},
				CorrectOption:   2,
				Image:           "/assets/composers.jpg",
				IntroDurationMs: 5000,
			},
			{
				Text:          "What is the chemical symbol for gold?",
				Options:       []string{"Go", "Gd", "Au", "Ag"},
				CorrectOption: 2,
			},
			{
				Text:          "Which country hosted the first football World Cup?",
				Options:       []string{"Brazil", "Italy", "Uruguay", "France"},
				CorrectOption: 2,
			},
		},
	}

	id, err := repo.Create(ctx, qs)
	if err != nil {
		log.Fatalf("Failed to insert question set: %v", err)
	}

	fmt.Printf("Created question set %q with id %s\n", qs.Name, id)
}
