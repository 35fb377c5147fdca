// Package catalog serves the dashboard's analytics and saved prompt library.
// The data is fixed sample content; nothing is fetched or stored.
package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/naveenspark/legends/pkg/domain"
)

// Analytics returns the generation counters shown on the dashboard cards.
func Analytics() domain.Analytics {
	return domain.Analytics{Day: 12, Week: 87, Month: 342, Year: 4218}
}

// Monthly returns the twelve bars of the analytics chart, January first.
func Monthly() []domain.MonthlyCount {
	return []domain.MonthlyCount{
		{Month: "Jan", Count: 320},
		{Month: "Feb", Count: 350},
		{Month: "Mar", Count: 290},
		{Month: "Apr", Count: 400},
		{Month: "May", Count: 380},
		{Month: "Jun", Count: 420},
		{Month: "Jul", Count: 450},
		{Month: "Aug", Count: 500},
		{Month: "Sep", Count: 480},
		{Month: "Oct", Count: 520},
		{Month: "Nov", Count: 540},
		{Month: "Dec", Count: 580},
	}
}

// SavedPrompts returns a fresh copy of the sample library.
func SavedPrompts() []domain.SavedPrompt {
	out := make([]domain.SavedPrompt, len(savedPrompts))
	copy(out, savedPrompts)
	return out
}

// Categories lists the distinct categories of prompts in first-seen order.
func Categories(prompts []domain.SavedPrompt) []string {
	seen := make(map[string]bool, len(prompts))
	var out []string
	for _, p := range prompts {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Filter keeps prompts whose title contains search, ignoring case, and whose
// category equals category. An empty category matches all.
func Filter(prompts []domain.SavedPrompt, search, category string) []domain.SavedPrompt {
	needle := strings.ToLower(search)
	var out []domain.SavedPrompt
	for _, p := range prompts {
		if !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

const summaryLen = 100

// Summary is the first line of the prompt with its first '#' removed, cut to
// 100 characters.
func Summary(p domain.SavedPrompt) string {
	line, _, _ := strings.Cut(p.Content, "\n")
	line = strings.TrimSpace(strings.Replace(line, "#", "", 1))
	if utf8.RuneCountInString(line) <= summaryLen {
		return line
	}
	return string([]rune(line)[:summaryLen])
}

// Max returns the largest count in series, or 0 when it is empty.
func Max(series []domain.MonthlyCount) int {
	m := 0
	for _, c := range series {
		if c.Count > m {
			m = c.Count
		}
	}
	return m
}

var savedPrompts = []domain.SavedPrompt{
	{
		ID:       "1",
		Title:    "Product Description for Eco-Friendly Water Bottle",
		Content:  "# Eco-Friendly Water Bottle\n\nIntroducing our revolutionary eco-friendly water bottle, crafted from sustainable materials that reduce environmental impact without compromising on quality or design. This sleek, durable bottle features double-wall insulation to keep your beverages at the perfect temperature for hours.\n\n## Key Features\n\n- **Sustainable Materials**: Made from 100% recycled stainless steel\n- **Temperature Control**: Keeps drinks cold for 24 hours or hot for 12 hours\n- **Leak-Proof Design**: Secure seal prevents any spills in your bag\n- **Ergonomic Shape**: Comfortable grip for easy carrying\n\nPerfect for environmentally conscious consumers who don't want to sacrifice style or functionality.",
		Date:     time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
		Category: "Product",
	},
	{
		ID:       "2",
		Title:    "AI Research Assistant Job Description",
		Content:  "# AI Research Assistant Position\n\nWe are seeking a talented and motivated AI Research Assistant to join our innovative team. The ideal candidate will support senior researchers in developing cutting-edge artificial intelligence solutions that push the boundaries of what's possible in machine learning and natural language processing.\n\n## Responsibilities\n\n- Assist in designing and implementing machine learning models\n- Collect and preprocess data for training and evaluation\n- Conduct literature reviews on state-of-the-art AI techniques\n- Document research findings and contribute to technical reports\n- Collaborate with cross-functional teams to integrate AI solutions\n\n## Requirements\n\n- Bachelor's degree in Computer Science, Mathematics, or related field\n- Strong programming skills in Python and familiarity with ML frameworks\n- Basic understanding of machine learning concepts and algorithms\n- Excellent analytical and problem-solving abilities\n- Strong communication skills and ability to work in a team environment",
		Date:     time.Date(2023, time.July, 22, 0, 0, 0, 0, time.UTC),
		Category: "Job",
	},
	{
		ID:       "3",
		Title:    "Weekly Team Update Email",
		Content:  "# Weekly Team Update: Project Phoenix Progress\n\nDear Team,\n\nI hope this email finds you well. I wanted to provide a quick update on our progress with Project Phoenix this week.\n\n## Achievements\n\n- Successfully completed the user authentication module ahead of schedule\n- Fixed 12 critical bugs in the payment processing system\n- Improved page load speed by 40% through code optimization\n- Onboarded two new team members who are already making valuable contributions\n\n## Challenges\n\n- We're still experiencing some issues with the third-party API integration\n- The client has requested additional features that may impact our timeline\n\n## Next Week's Focus\n\n- Complete the reporting dashboard with all requested visualizations\n- Begin work on the mobile responsive design\n- Schedule a mid-project review with the client\n\nPlease let me know if you have any questions or concerns. Your hard work and dedication are greatly appreciated!\n\nBest regards,\nAlex",
		Date:     time.Date(2023, time.August, 5, 0, 0, 0, 0, time.UTC),
		Category: "Email",
	},
	{
		ID:       "4",
		Title:    "Social Media Post for New Service Launch",
		Content:  "# Social Media Announcement: New Service Launch\n\n🚀 **EXCITING NEWS!** 🚀\n\nWe're thrilled to announce the launch of our newest service: **AI-Powered Content Optimization**!\n\nTransform your content from good to exceptional with our advanced AI tools that analyze, enhance, and optimize your writing for maximum impact.\n\n## What Our Service Offers:\n\n✅ Sentiment analysis to perfect your tone\n✅ Readability scoring and improvements\n✅ SEO optimization for better visibility\n✅ Audience engagement predictions\n\nPerfect for marketers, content creators, and businesses looking to stand out in a crowded digital landscape.\n\n**Early Bird Special:** Get 30% off if you sign up in the next 48 hours!\n\nLink in bio to learn more. #ContentOptimization #AITools #DigitalMarketing",
		Date:     time.Date(2023, time.September, 10, 0, 0, 0, 0, time.UTC),
		Category: "Social",
	},
	{
		ID:       "5",
		Title:    "Customer Support Response Template",
		Content:  "# Customer Support Response Template\n\nDear [Customer Name],\n\nThank you for reaching out to our support team. I understand you're experiencing an issue with [specific problem], and I want to assure you that we're here to help resolve this as quickly as possible.\n\n## What We Understand\n\nBased on your description, you're encountering [restate the problem in clear terms]. This is certainly frustrating, and I appreciate your patience as we work through this together.\n\n## Immediate Steps\n\n1. Please try [first troubleshooting step] as this resolves the issue in many cases\n2. If that doesn't work, [second troubleshooting step]\n3. You can also check our knowledge base article at [link] for additional guidance\n\n## What We're Doing\n\nI've documented this issue in our system (reference #[TICKET-ID]). If the steps above don't resolve your problem, our technical team will investigate further.\n\n## Next Steps\n\nPlease let me know if the suggested solutions help. If not, we may need to [collect additional information/schedule a call/escalate to a specialist].\n\nWe value you as a customer and are committed to providing you with the best possible experience with our product.\n\nBest regards,\n[Your Name]\nCustomer Support Specialist",
		Date:     time.Date(2023, time.October, 18, 0, 0, 0, 0, time.UTC),
		Category: "Support",
	},
}
