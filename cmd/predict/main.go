package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"loanpredict/form"
	"loanpredict/ml"
	"loanpredict/predict"
)

func main() {
	modelPath := flag.String("model", "./models/loan_approval.json", "model artifact path")
	age := flag.String("age", "", "applicant age")
	income := flag.String("income", "", "applicant income")
	creditScore := flag.String("credit-score", "", "applicant credit score")
	timeout := flag.Duration("timeout", 5*time.Second, "prediction timeout")
	flag.Parse()

	ctx := context.Background()
	service := predict.NewService(predict.WithTimeout(*timeout))
	if _, err := service.Load(ctx, ml.FileSource{Path: *modelPath}); err != nil {
		log.Fatalf("failed to load model: %v", err)
	}

	result := form.Submit(ctx, service, form.Input{
		Age:         *age,
		Income:      *income,
		CreditScore: *creditScore,
	})
	fmt.Println(result.Message)

	switch result.State {
	case form.StateInvalidInput:
		os.Exit(2)
	case form.StateFailed:
		os.Exit(1)
	}
}
