package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hospital-ops/internal/infra/db"
	"hospital-ops/internal/infra/uow"
	"hospital-ops/internal/pkg/config"
	"hospital-ops/internal/pkg/password"
	"hospital-ops/internal/pkg/refno"
	"hospital-ops/internal/usecase/shared"
)

const seedPassword = "password123"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer cleanup()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	unit := uow.NewPostgresUoW(pool)

	err = unit.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		hash, err := password.Hash(seedPassword)
		if err != nil {
			return err
		}

		if err := seedAdmin(ctx, tx, hash); err != nil {
			return err
		}

		departments, err := seedDepartments(ctx, tx)
		if err != nil {
			return err
		}

		doctors, err := seedDoctors(ctx, tx, hash, departments, 20)
		if err != nil {
			return err
		}

		if err := seedSchedules(ctx, tx, doctors, 5); err != nil {
			return err
		}

		if err := seedPatients(ctx, tx, hash, 50); err != nil {
			return err
		}

		if err := seedMedicines(ctx, tx, 40); err != nil {
			return err
		}

		return seedExamItems(ctx, tx)
	})
	if err != nil {
		log.Fatalf("seed: %v", err)
	}

	log.Println("seed complete")
}

func seedAdmin(ctx context.Context, tx shared.Tx, hash string) error {
	log.Println("seeding admin account")
	return tx.Admins().Create(ctx, &shared.Admin{
		ID:           uuid.New(),
		Username:     "admin",
		PasswordHash: hash,
		Name:         "Administrator",
	})
}

func seedDepartments(ctx context.Context, tx shared.Tx) ([]*shared.Department, error) {
	names := []string{
		"Internal Medicine",
		"Surgery",
		"Pediatrics",
		"Dermatology",
		"Cardiology",
		"Orthopedics",
		"Neurology",
		"Ophthalmology",
	}
	log.Printf("seeding %d departments", len(names))

	departments := make([]*shared.Department, 0, len(names))
	for _, name := range names {
		d := &shared.Department{
			ID:          uuid.New(),
			Name:        name,
			Description: gofakeit.Sentence(8),
		}
		if err := tx.Departments().Create(ctx, d); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, nil
}

func seedDoctors(ctx context.Context, tx shared.Tx, hash string, departments []*shared.Department, count int) ([]*shared.Doctor, error) {
	log.Printf("seeding %d doctors", count)

	titles := []string{"Chief Physician", "Attending Physician", "Resident", "Specialist"}

	doctors := make([]*shared.Doctor, 0, count)
	for i := 0; i < count; i++ {
		d := &shared.Doctor{
			ID:           uuid.New(),
			Username:     fmt.Sprintf("doctor%02d", i+1),
			PasswordHash: hash,
			Name:         gofakeit.Name(),
			Title:        titles[gofakeit.Number(0, len(titles)-1)],
			DepartmentID: departments[i%len(departments)].ID,
			Active:       true,
		}
		if err := tx.Doctors().Create(ctx, d); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, nil
}

func seedSchedules(ctx context.Context, tx shared.Tx, doctors []*shared.Doctor, daysAhead int) error {
	log.Printf("seeding schedules for %d doctors over %d days", len(doctors), daysAhead)

	slots := []string{"morning", "afternoon"}
	today := time.Now().Truncate(24 * time.Hour)

	for _, d := range doctors {
		for day := 1; day <= daysAhead; day++ {
			for _, slot := range slots {
				s := &shared.Schedule{
					ID:           uuid.New(),
					DoctorID:     d.ID,
					DepartmentID: d.DepartmentID,
					VisitDate:    today.AddDate(0, 0, day),
					TimeSlot:     slot,
					Fee:          decimal.NewFromInt(int64(gofakeit.Number(10, 60))),
					MaxPatients:  int32(gofakeit.Number(10, 30)),
					Active:       true,
				}
				if err := tx.Schedules().Create(ctx, s); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func seedPatients(ctx context.Context, tx shared.Tx, hash string, count int) error {
	log.Printf("seeding %d patients", count)

	for i := 0; i < count; i++ {
		p := &shared.Patient{
			ID:            uuid.New(),
			Username:      fmt.Sprintf("patient%03d", i+1),
			PasswordHash:  hash,
			Name:          gofakeit.Name(),
			Phone:         gofakeit.Phone(),
			MedicalCardNo: refno.NewMedicalCard(time.Now()),
			Balance:       decimal.NewFromInt(int64(gofakeit.Number(0, 500))),
		}
		if err := tx.Patients().Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func seedMedicines(ctx context.Context, tx shared.Tx, count int) error {
	log.Printf("seeding %d medicines", count)

	units := []string{"box", "bottle", "tube", "pack"}
	bases := []string{
		"Amoxicillin", "Ibuprofen", "Paracetamol", "Omeprazole", "Metformin",
		"Amlodipine", "Cetirizine", "Azithromycin", "Loratadine", "Aspirin",
	}

	for i := 0; i < count; i++ {
		m := &shared.Medicine{
			ID:     uuid.New(),
			Name:   fmt.Sprintf("%s %dmg", bases[i%len(bases)], 125*gofakeit.Number(1, 4)),
			Spec:   fmt.Sprintf("%dmg x %d", gofakeit.Number(5, 500), gofakeit.Number(10, 60)),
			Unit:   units[gofakeit.Number(0, len(units)-1)],
			Price:  decimal.NewFromFloat(float64(gofakeit.Number(100, 20000)) / 100),
			Stock:  int64(gofakeit.Number(50, 1000)),
			Active: true,
		}
		if err := tx.Medicines().Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func seedExamItems(ctx context.Context, tx shared.Tx) error {
	items := []struct {
		name  string
		price int64
	}{
		{"Complete Blood Count", 15},
		{"Urinalysis", 10},
		{"Chest X-Ray", 45},
		{"Abdominal Ultrasound", 60},
		{"Electrocardiogram", 30},
		{"CT Scan", 250},
		{"MRI", 400},
		{"Liver Function Panel", 25},
	}
	log.Printf("seeding %d exam items", len(items))

	for _, item := range items {
		def := &shared.ExamItemDef{
			ID:          uuid.New(),
			Name:        item.name,
			Price:       decimal.NewFromInt(item.price),
			Description: gofakeit.Sentence(10),
			Active:      true,
		}
		if err := tx.ExamItems().Create(ctx, def); err != nil {
			return err
		}
	}
	return nil
}
