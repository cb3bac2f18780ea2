package service

import "kelfit/internal/model"

type sampleWorkout struct {
	workout   model.Workout
	exercises []model.Exercise
}

var sampleWorkouts = []sampleWorkout{
	{
		workout: model.Workout{
			Name:        "Treino A - Inferiores",
			Type:        "A",
			Category:    model.CategoryGym,
			Duration:    "50 min",
			Series:      "4x12",
			Description: "Quadríceps, posteriores e glúteos.",
			Tips:        "Mantenha o abdômen contraído durante todo o treino.",
			OrderIndex:  1,
		},
		exercises: []model.Exercise{
			{Name: "Agachamento livre", Description: "4 séries de 12 repetições.", Tips: "Joelhos alinhados com a ponta dos pés."},
			{Name: "Leg press 45", Description: "4 séries de 12 repetições."},
			{Name: "Stiff", Description: "3 séries de 10 repetições.", Tips: "Coluna neutra."},
			{Name: "Elevação pélvica", Description: "4 séries de 15 repetições."},
		},
	},
	{
		workout: model.Workout{
			Name:        "Treino B - Superiores",
			Type:        "B",
			Category:    model.CategoryGym,
			Duration:    "45 min",
			Series:      "3x12",
			Description: "Costas, peito, ombros e braços.",
			Tips:        "Controle a fase excêntrica de cada repetição.",
			OrderIndex:  2,
		},
		exercises: []model.Exercise{
			{Name: "Puxada frontal", Description: "3 séries de 12 repetições."},
			{Name: "Supino reto com halteres", Description: "3 séries de 12 repetições."},
			{Name: "Desenvolvimento", Description: "3 séries de 10 repetições."},
			{Name: "Rosca direta", Description: "3 séries de 12 repetições."},
		},
	},
	{
		workout: model.Workout{
			Name:        "Treino C - Em casa",
			Type:        "C",
			Category:    model.CategoryHome,
			Duration:    "30 min",
			Series:      "3 rounds",
			Description: "Circuito com o peso do corpo.",
			Tips:        "Descanse 60 segundos entre os rounds.",
			OrderIndex:  3,
		},
		exercises: []model.Exercise{
			{Name: "Polichinelo", Description: "45 segundos."},
			{Name: "Agachamento", Description: "20 repetições."},
			{Name: "Flexão de braço", Description: "12 repetições.", Tips: "Apoie os joelhos se precisar."},
			{Name: "Prancha", Description: "40 segundos."},
		},
	},
}

var sampleChallenges = []model.Challenge{
	{Title: "7 dias de hidratação", Description: "Beba 2 litros de água por dia durante uma semana.", DurationDays: 7, OrderIndex: 1},
	{Title: "21 dias de treino", Description: "Complete um treino por dia durante 21 dias.", DurationDays: 21, OrderIndex: 2},
	{Title: "30 dias de prancha", Description: "Aumente 10 segundos de prancha a cada dia.", DurationDays: 30, OrderIndex: 3},
}

var defaultConfig = []struct {
	key, value string
}{
	{model.ConfigHomeBanner, "https://picsum.photos/seed/kelfit/1200/600"},
	{model.ConfigMotivationalQuote, "Cada treino te deixa mais perto do seu objetivo."},
}
