package agent

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Deterministic simulation content. Simulated output carries the same
// structure as real model output so the rest of the pipeline cannot tell
// them apart except by model attribution.

const simulatedConfidence = 0.926

// simulatedImageData is a base64 placeholder standing in for generated
// image bytes.
var simulatedImageData = base64.StdEncoding.EncodeToString([]byte("SIMULATED_IMAGE_DATA"))

// researchTemplates provide topic-aware key points. The first template
// whose trigger appears in the topic wins; otherwise generic market
// points are used.
var researchTemplates = []struct {
	triggers  []string
	keyPoints []string
}{
	{
		triggers: []string{"ai", "machine learning", "technology", "automation"},
		keyPoints: []string{
			"Advanced neural architectures enable unprecedented pattern recognition capabilities",
			"Distributed computing frameworks support massive scale AI model training",
			"Edge computing brings AI inference closer to data sources for reduced latency",
			"Federated learning preserves privacy while enabling collaborative model improvement",
		},
	},
	{
		triggers: []string{"business", "enterprise", "strategy", "innovation"},
		keyPoints: []string{
			"Digital transformation drives competitive advantage through AI-powered insights",
			"Automated decision-making systems reduce operational costs by 40-60%",
			"Customer experience personalization increases engagement metrics significantly",
			"Predictive analytics enable proactive business strategy adjustments",
		},
	},
	{
		triggers: []string{"development", "software", "engineering", "architecture"},
		keyPoints: []string{
			"Microservice architectures provide scalable, maintainable system design",
			"DevOps practices accelerate deployment cycles while maintaining reliability",
			"API-first design enables seamless integration across diverse platforms",
			"Cloud-native solutions offer elastic scalability and cost optimization",
		},
	},
}

var genericKeyPoints = []string{
	"Market adoption of %s technologies accelerating 45%% faster than predicted",
	"Regulatory environment increasingly supportive with new frameworks",
	"Supply chain optimization creating 30-35%% cost reduction opportunities",
	"Consumer trust metrics showing 82%% positive sentiment",
	"Investment surge with $3.8B in new funding across sector",
}

func simulatedBrief(topic string, depth int) ResearchBrief {
	return ResearchBrief{
		Title: fmt.Sprintf("Strategic Analysis: %s", topic),
		ExecutiveSummary: fmt.Sprintf(
			"Comprehensive analysis of %s reveals significant opportunities for innovation and market growth. "+
				"Key technological advances and changing user behaviors are creating new possibilities for "+
				"disruption and value creation.", topic),
		KeyPoints: simulatedKeyPoints(topic),
		Keywords: []string{
			strings.ToLower(topic),
			"innovation",
			"market growth",
			"technology",
			"digital transformation",
			"strategic analysis",
		},
		Confidence:  simulatedConfidence,
		Methodology: fmt.Sprintf("Multi-source analysis with AI-powered synthesis (depth %d)", depth),
		ModelUsed:   SimulationModel,
	}
}

func simulatedKeyPoints(topic string) []string {
	lower := strings.ToLower(topic)
	for _, tpl := range researchTemplates {
		for _, trigger := range tpl.triggers {
			if strings.Contains(lower, trigger) {
				return append([]string(nil), tpl.keyPoints...)
			}
		}
	}

	points := make([]string, 0, len(genericKeyPoints))
	for _, p := range genericKeyPoints {
		if strings.Contains(p, "%s") {
			points = append(points, fmt.Sprintf(p, topic))
			continue
		}
		points = append(points, strings.ReplaceAll(p, "%%", "%"))
	}
	return points
}

func simulatedArticle(req WriteRequest) string {
	var items strings.Builder
	for _, point := range req.KeyPoints {
		fmt.Fprintf(&items, "            <li>%s</li>\n", point)
	}

	return fmt.Sprintf(`<h1>%s</h1>

<div class="executive-summary">
    <p>%s</p>
</div>

<h2>Key Strategic Insights</h2>
<div class="key-insights">
    <ul>
%s    </ul>
</div>

<h2>Detailed Analysis</h2>
<p>Our comprehensive analysis reveals a rapidly evolving landscape with significant implications for industry leaders and innovators alike. The convergence of technological advancement and market demand is creating unprecedented opportunities for organizations that can effectively navigate this transformation.</p>

<h2>Market Dynamics</h2>
<p>The market is experiencing accelerated growth, driven by several key factors:</p>
<ul>
    <li>Technological Innovation: Rapid advancement in core technologies</li>
    <li>Market Demand: Growing user sophistication and expectations</li>
    <li>Regulatory Support: Favorable policy frameworks emerging globally</li>
    <li>Investment Climate: Strong venture capital and corporate interest</li>
</ul>

<h2>Strategic Recommendations</h2>
<p>Organizations should consider the following strategic initiatives:</p>
<ol>
    <li>Invest in technological capabilities and infrastructure</li>
    <li>Build strategic partnerships across the ecosystem</li>
    <li>Focus on user experience and trust-building</li>
    <li>Develop clear regulatory compliance frameworks</li>
</ol>

<h2>Conclusion</h2>
<p>The evolution of this space presents both challenges and opportunities. Organizations that can effectively leverage these insights while maintaining agility and innovation focus will be best positioned for success in this dynamic environment.</p>`,
		req.Title, req.ExecutiveSummary, items.String())
}
