package engine

// LLM prompt templates. Data only.

// ExplainPrompt asks for a beginner-friendly explanation.
// Args: topic, context.
const ExplainPrompt = `Explain the financial concept or application process for: "%s".
Context: %s

Target audience: Beginner, non-expert user.
Tone: Helpful, encouraging, clear.
Structure: Break it down into simple terms. Avoid jargon.
Output: Plain text (Markdown supported).`

// SuggestPrompt asks for search links rather than direct URLs, which the
// model tends to invent.
// Args: topic, topic, topic.
const SuggestPrompt = `Provide 3 trusted financial articles and 3 trusted YouTube video titles for learning about: "%s".

Output Format: JSON with keys "articles" (list of objects with "title", "url") and "videos" (list of objects with "title", "url").

CRITICAL INSTRUCTION:
- For "url" in articles, generate a Google Search URL: "https://www.google.com/search?q=Topic+Name"
- For "url" in videos, generate a YouTube Search URL: "https://www.youtube.com/results?search_query=Topic+Name"
- Do NOT make up fake direct URLs like "www.investopedia.com/article123". Use search URLs.

Example:
{
  "articles": [ {"title": "Understanding %s - Investopedia", "url": "https://www.google.com/search?q=Understanding+Topic+Investopedia"} ],
  "videos": [ {"title": "Beginner's Guide to %s", "url": "https://www.youtube.com/results?search_query=Beginners+Guide+Topic"} ]
}`
