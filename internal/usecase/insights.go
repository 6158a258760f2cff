package usecase

import (
	"fmt"

	"github.com/davidhchng/Stock-Predictive-Model/internal/domain/models"
	"github.com/davidhchng/Stock-Predictive-Model/internal/services/seasonality"
)

// Disclaimer is appended to every analysis summary.
const Disclaimer = "This analysis is for educational purposes only and should not be considered financial advice"

// buildSummary composes the narrative roll-up from the engines' typed
// sections. Sentiment follows the prediction label; if it contradicts the
// technical trend sign, the summary goes neutral and an insight names the
// conflict. When prediction is unavailable the trend sign decides, at low
// confidence.
func buildSummary(report *models.AnalysisReport) models.AnalysisSummary {
	summary := models.AnalysisSummary{
		OverallSentiment: models.SentimentNeutral,
		ConfidenceLevel:  models.ConfidenceLow,
		KeyInsights:      []string{},
		Recommendations:  []string{},
		Disclaimer:       Disclaimer,
	}

	var trend models.TrendSignals
	if report.Technical != nil {
		trend = report.Technical.Trend
		latest := report.Technical.Latest

		if latest.RSI14 != nil {
			switch {
			case *latest.RSI14 > 70:
				summary.KeyInsights = append(summary.KeyInsights, "RSI indicates overbought conditions")
				summary.Recommendations = append(summary.Recommendations, "Consider taking profits")
			case *latest.RSI14 < 30:
				summary.KeyInsights = append(summary.KeyInsights, "RSI indicates oversold conditions")
				summary.Recommendations = append(summary.Recommendations, "Potential buying opportunity")
			}
		}
		if latest.PriceVsMA20 != nil {
			switch {
			case *latest.PriceVsMA20 > 5:
				summary.KeyInsights = append(summary.KeyInsights, "Price is significantly above 20-day moving average")
			case *latest.PriceVsMA20 < -5:
				summary.KeyInsights = append(summary.KeyInsights, "Price is significantly below 20-day moving average")
			}
		}
	}

	if report.Seasonality != nil {
		s := report.Seasonality.Summary
		if int(report.GeneratedAt.Month()) == s.BestBucket.Bucket && s.BestBucket.Label != "" {
			summary.KeyInsights = append(summary.KeyInsights,
				fmt.Sprintf("Currently in historically best performing month (%s)", s.BestBucket.Label))
		}
		switch s.Strength {
		case seasonality.StrengthStrong:
			summary.KeyInsights = append(summary.KeyInsights, "Strong seasonal patterns detected")
		case seasonality.StrengthModerate:
			summary.KeyInsights = append(summary.KeyInsights, "Moderate seasonal patterns detected")
		}
	}

	summary.OverallSentiment, summary.ConfidenceLevel = resolveSentiment(report, trend, &summary)

	summary.Recommendations = append(summary.Recommendations, recommendation(summary.OverallSentiment, summary.ConfidenceLevel))
	return summary
}

func resolveSentiment(report *models.AnalysisReport, trend models.TrendSignals, summary *models.AnalysisSummary) (string, string) {
	trendSign := 0
	if trend.Overall > 0 {
		trendSign = 1
	} else if trend.Overall < 0 {
		trendSign = -1
	}

	if report.Predictive == nil {
		// fall back to the technical trend at low confidence
		switch trendSign {
		case 1:
			return models.SentimentBullish, models.ConfidenceLow
		case -1:
			return models.SentimentBearish, models.ConfidenceLow
		default:
			return models.SentimentNeutral, models.ConfidenceLow
		}
	}

	pred := report.Predictive.Prediction
	if pred.Confidence == models.ConfidenceHigh && pred.Prediction != models.SentimentNeutral {
		summary.KeyInsights = append(summary.KeyInsights,
			fmt.Sprintf("High confidence %s prediction for next day", pred.Prediction))
	}

	conflict := (pred.Prediction == models.SentimentBullish && trendSign < 0) ||
		(pred.Prediction == models.SentimentBearish && trendSign > 0)
	if conflict {
		summary.KeyInsights = append(summary.KeyInsights,
			"Model prediction conflicts with the technical trend; treating outlook as neutral")
		return models.SentimentNeutral, pred.Confidence
	}
	return pred.Prediction, pred.Confidence
}

func recommendation(sentiment, confidence string) string {
	switch sentiment {
	case models.SentimentBullish:
		if confidence == models.ConfidenceHigh {
			return "Strong buy signal - consider long position"
		}
		return "Moderate buy signal - consider small long position"
	case models.SentimentBearish:
		if confidence == models.ConfidenceHigh {
			return "Strong sell signal - consider reducing position"
		}
		return "Moderate sell signal - consider hedging"
	default:
		return "Neutral outlook - hold current position"
	}
}
