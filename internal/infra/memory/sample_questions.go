package memory

import "millionaire-service/internal/domain"

// SampleQuestions is a minimal bank with one question per level; swap the
// loader for the Postgres one in production.
func SampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q01", Level: 1, Text: "What is 2 + 2?", Answers: [4]string{"4", "3", "5", "22"}, CorrectSlot: 1},
		{ID: "q02", Level: 2, Text: "Which colour do you get by mixing blue and yellow?", Answers: [4]string{"Green", "Purple", "Orange", "Brown"}, CorrectSlot: 1},
		{ID: "q03", Level: 3, Text: "How many days are there in a leap year?", Answers: [4]string{"365", "366", "364", "360"}, CorrectSlot: 2},
		{ID: "q04", Level: 4, Text: "Which planet is known as the Red Planet?", Answers: [4]string{"Venus", "Jupiter", "Mars", "Mercury"}, CorrectSlot: 3},
		{ID: "q05", Level: 5, Text: "What is the capital of Australia?", Answers: [4]string{"Sydney", "Melbourne", "Perth", "Canberra"}, CorrectSlot: 4},
		{ID: "q06", Level: 6, Text: "Who wrote 'War and Peace'?", Answers: [4]string{"Leo Tolstoy", "Fyodor Dostoevsky", "Anton Chekhov", "Ivan Turgenev"}, CorrectSlot: 1},
		{ID: "q07", Level: 7, Text: "What is the chemical symbol for gold?", Answers: [4]string{"Ag", "Au", "Gd", "Go"}, CorrectSlot: 2},
		{ID: "q08", Level: 8, Text: "In which year did the Berlin Wall fall?", Answers: [4]string{"1987", "1991", "1989", "1985"}, CorrectSlot: 3},
		{ID: "q09", Level: 9, Text: "What is the largest ocean on Earth?", Answers: [4]string{"Atlantic", "Indian", "Arctic", "Pacific"}, CorrectSlot: 4},
		{ID: "q10", Level: 10, Text: "How many bones are in the adult human body?", Answers: [4]string{"206", "201", "212", "198"}, CorrectSlot: 1},
		{ID: "q11", Level: 11, Text: "Which element has atomic number 26?", Answers: [4]string{"Copper", "Iron", "Nickel", "Cobalt"}, CorrectSlot: 2},
		{ID: "q12", Level: 12, Text: "Who painted 'The Garden of Earthly Delights'?", Answers: [4]string{"Pieter Bruegel", "Jan van Eyck", "Hieronymus Bosch", "Albrecht Durer"}, CorrectSlot: 3},
		{ID: "q13", Level: 13, Text: "What is the smallest prime number greater than 100?", Answers: [4]string{"103", "107", "109", "101"}, CorrectSlot: 4},
		{ID: "q14", Level: 14, Text: "Which country has the most time zones, counting territories?", Answers: [4]string{"France", "Russia", "United States", "United Kingdom"}, CorrectSlot: 1},
		{ID: "q15", Level: 15, Text: "In what year was the Treaty of Westphalia signed?", Answers: [4]string{"1618", "1648", "1658", "1715"}, CorrectSlot: 2},
	}
}
