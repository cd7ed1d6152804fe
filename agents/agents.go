// Package agents wraps the completion service with the upstream
// content prompts: research, titles, description, hashtags, script and
// storyboard text. Their output feeds the compilation core; their
// failures surface as run failures upstream of it.
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/mikeoller82/youtube-shorts-generator/completion"
	"github.com/mikeoller82/youtube-shorts-generator/config"
)

type Agents struct {
	client *completion.Client
	search *WebSearchTool
	cfg    config.CompletionConfig
}

func New(client *completion.Client, search *WebSearchTool, cfg config.CompletionConfig) *Agents {
	return &Agents{client: client, search: search, cfg: cfg}
}

// Research gathers recent events on the topic and summarizes the most
// compelling ones for scripting. videoLength (seconds) bounds how many
// events fit, at roughly 15 seconds per event.
func (a *Agents) Research(ctx context.Context, topic, timeFrame string, videoLength int) (string, error) {
	log.Printf("[agents] Researching %q (%s)...", topic, timeFrame)

	maxEvents := videoLength / 15
	if maxEvents > 5 {
		maxEvents = 5
	}
	if maxEvents < 1 {
		maxEvents = 1
	}

	query := fmt.Sprintf("%s events in the %s", topic, timeFrame)
	results, err := a.search.Search(ctx, query, timeFrame)
	if err != nil {
		return "", fmt.Errorf("research search: %w", err)
	}
	if len(results) > 10 {
		results = results[:10]
	}
	resultsJSON, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(`As a seasoned investigative journalist, analyze and summarize the most engaging and relevant %s events that occurred in the %s. Using the following search results, select the %d most compelling cases:

Search Results: %s

For each selected event provide a vivid description, the precise date, the specific location, why it defies conventional explanation, and a critical evaluation of the source with its URL.

Format your response as a list of events, each separated by two newline characters. Keep the summaries informative and captivating, suitable for a documentary-style presentation.`,
		topic, timeFrame, maxEvents, resultsJSON)

	return a.client.Complete(ctx, completion.Request{
		Model:       a.cfg.ResearchModel,
		System:      "You are a world-renowned investigative journalist specializing in viral short-form content. You critically evaluate sources while presenting information in an engaging, documentary-style format.",
		User:        prompt,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
}

// GenerateTitles produces 15 candidate titles grouped by keyword
// position.
func (a *Agents) GenerateTitles(ctx context.Context, research string) (string, error) {
	log.Println("[agents] Generating titles...")
	prompt := fmt.Sprintf(`Using the following research, generate 15 enticing keyword YouTube titles:

Research:
%s

Categorize them under appropriate headings: beginning, middle, and end — 5 titles with the keyword at the beginning, 5 with it in the middle, and 5 with it at the end.`, research)

	return a.client.Complete(ctx, completion.Request{
		Model:       a.cfg.TitleModel,
		System:      "You are an expert in keyword strategy and copywriting with a decade of experience crafting attention-grabbing YouTube titles.",
		User:        prompt,
		Temperature: a.cfg.Temperature,
		MaxTokens:   1024,
	})
}

// SelectTitle picks the strongest candidate and explains the choice.
func (a *Agents) SelectTitle(ctx context.Context, generatedTitles string) (string, error) {
	log.Println("[agents] Selecting title...")
	prompt := fmt.Sprintf(`Analyze the following list of titles for a YouTube video and select the most effective one:

%s

Consider attention-grabbing potential, keyword optimization, emotional appeal, clarity and alignment with current trends. Present your choice on a line starting with "Selected Title:" followed by your rationale.`, generatedTitles)

	return a.client.Complete(ctx, completion.Request{
		Model:       a.cfg.SelectModel,
		System:      "You are a top-tier YouTube content strategist with 15 years of experience in video optimization, audience engagement and title selection.",
		User:        prompt,
		Temperature: 0.5,
		MaxTokens:   a.cfg.MaxTokens,
	})
}

// ExtractSelectedTitle pulls the chosen title out of SelectTitle's
// output. Falls back to the whole trimmed output when no labeled line
// is found.
func ExtractSelectedTitle(selectionOutput string) string {
	for _, line := range strings.Split(selectionOutput, "\n") {
		if strings.Contains(line, "Selected Title:") || strings.Contains(line, "Title:") {
			_, title, _ := strings.Cut(line, ":")
			title = strings.TrimSpace(title)
			title = strings.Trim(title, `"`)
			title = strings.Trim(title, `'`)
			if title != "" {
				return title
			}
		}
	}
	return strings.TrimSpace(selectionOutput)
}

// GenerateDescription writes the upload description for the selected
// title.
func (a *Agents) GenerateDescription(ctx context.Context, selectedTitle string) (string, error) {
	log.Println("[agents] Generating description...")
	prompt := fmt.Sprintf(`Compose a masterful 1000-character YouTube video description that seamlessly incorporates the keyword "%s" in the first sentence, is optimized for search engines, engages viewers, and includes relevant calls-to-action. Use a natural, conversational tone.`, selectedTitle)

	return a.client.Complete(ctx, completion.Request{
		Model:       a.cfg.DescModel,
		System:      "You are an elite SEO copywriter and YouTube content creator with 12+ years of experience crafting engaging, algorithm-friendly video descriptions.",
		User:        prompt,
		Temperature: 0.6,
		MaxTokens:   a.cfg.MaxTokens,
	})
}

// GenerateHashtags produces hashtags and comma-separated tags for the
// selected title.
func (a *Agents) GenerateHashtags(ctx context.Context, selectedTitle string) (string, error) {
	log.Println("[agents] Generating hashtags and tags...")
	prompt := fmt.Sprintf(`Create an engaging and relevant set of hashtags and tags for the YouTube video titled "%s":

1. 10 SEO-optimized, trending hashtags (with the '#' symbol)
2. 35 high-value SEO tags, separated by commas

Prioritize relevance to the title, search volume, engagement potential and alignment with the recommendation algorithm.`, selectedTitle)

	return a.client.Complete(ctx, completion.Request{
		Model:       a.cfg.HashtagModel,
		System:      "You are a leading YouTube SEO specialist and social media strategist with 10+ years of experience optimizing video discoverability.",
		User:        prompt,
		Temperature: 0.6,
		MaxTokens:   1024,
	})
}

// GenerateScript writes the narration script the storyboard is built
// from.
func (a *Agents) GenerateScript(ctx context.Context, research string, videoLength int) (string, error) {
	log.Println("[agents] Generating script...")
	prompt := fmt.Sprintf(`Craft a detailed, engaging and enthralling script for a %d-second vertical video based on the following information:

%s

Your script should include an attention-grabbing opening, key points from the research, and a strong call-to-action conclusion. Format the script with clear timestamps to fit within %d seconds. Optimize for viewer retention and engagement.`,
		videoLength, research, videoLength)

	return a.client.Complete(ctx, completion.Request{
		Model:       a.cfg.ScriptModel,
		System:      "You are a leading YouTube content creator with a deep understanding of audience engagement.",
		User:        prompt,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
}

// GenerateStoryboard asks for the numbered storyboard text the parser
// consumes.
func (a *Agents) GenerateStoryboard(ctx context.Context, script string) (string, error) {
	log.Println("[agents] Generating storyboard...")
	prompt := fmt.Sprintf(`Create a storyboard for a YouTube Short based on the following script:

%s

For each major scene (aim for 15-20 scenes), provide:
1. Visual: A brief description of the visual elements (1 sentence). Ensure each scene has unique visual elements.
2. Text: The exact text/dialogue for voiceover and subtitles.
3. Video Keyword: A suitable keyword for searching stock video footage. Be specific and avoid repeating keywords.
4. Image Keyword: A backup keyword for searching a stock image. Be specific and avoid repeating keywords.

Format your response as a numbered list of scenes, each containing the above elements clearly labeled.

Example:
1. Visual: A person looking confused at a complex math equation on a chalkboard
   Text: "Have you ever felt overwhelmed by math?"
   Video Keyword: student struggling with math
   Image Keyword: confused face mathematics

Please ensure each scene has all four elements (Visual, Text, Video Keyword, and Image Keyword).`, script)

	return a.client.Complete(ctx, completion.Request{
		Model:       a.cfg.StoryboardModel,
		System:      "You are an assistant specializing in creating detailed storyboards for YouTube Shorts from a provided script.",
		User:        prompt,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
}

// ParseTags extracts the comma-separated tag list from GenerateHashtags
// output, dropping hashtag lines and commentary.
func ParseTags(hashtagOutput string, limit int) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(hashtagOutput, "\n") {
		if !strings.Contains(line, ",") || strings.Contains(line, "#") {
			continue
		}
		for _, tag := range strings.Split(line, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" || seen[strings.ToLower(tag)] {
				continue
			}
			seen[strings.ToLower(tag)] = true
			tags = append(tags, tag)
			if limit > 0 && len(tags) >= limit {
				return tags
			}
		}
	}
	return tags
}
