package main

import (
	"fmt"

	"salesdeck/export"
)

// fallbackSlides builds the deterministic 8-slide template used whenever
// the generation call fails or its reply cannot be parsed. It cannot fail,
// so deck generation never blocks entirely on third-party availability.
func fallbackSlides(req DeckRequest) []export.Slide {
	return []export.Slide{
		{
			Title:   fmt.Sprintf("Welcome to %s", req.CompanyName),
			Content: []string{fmt.Sprintf("Professional solutions for %s", req.Industry), "Driving innovation and growth", "Your trusted partner"},
		},
		{
			Title:   "The Challenge",
			Content: []string{req.MainPainPoint, "Industry-wide impact", "Need for solution"},
		},
		{
			Title:   "Our Solution",
			Content: []string{"Innovative approach", "Proven methodology", "Measurable results"},
		},
		{
			Title:   "Product Overview",
			Content: []string{"Key features", "Benefits", "Competitive advantages"},
		},
		{
			Title:   "Use Case",
			Content: []string{req.UseCase, "Implementation strategy", "Expected outcomes"},
		},
		{
			Title:   "Success Story",
			Content: []string{"Client challenge", "Our solution", "Results achieved"},
		},
		{
			Title:   "Investment & ROI",
			Content: []string{"Competitive pricing", "Clear value proposition", "Return on investment"},
		},
		{
			Title:   "Next Steps",
			Content: []string{"Schedule demo", "Discuss implementation", "Begin partnership"},
		},
	}
}
