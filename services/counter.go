package services

import (
	"context"
	"fmt"

	"WardCare360/util"

	log "github.com/sirupsen/logrus"
)

func nextSequence(ctx context.Context, name string) (int, error) {
	seq, err := store.Counters.Next(ctx, name)
	if err != nil {
		log.Println("Error from counters.Next: ", err)
		return 0, util.Internal(util.SOMETHING_WENT_WRONG, err)
	}
	return seq, nil
}

func NextOPDNumber(ctx context.Context) (int, error) {
	return nextSequence(ctx, util.OPDCounter)
}

func NextIPDNumber(ctx context.Context) (int, error) {
	return nextSequence(ctx, util.IPDCounter)
}

func nextPatientCode(ctx context.Context) (string, error) {
	seq, err := nextSequence(ctx, util.PatientCounter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("P%05d", seq), nil
}
