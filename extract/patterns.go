package extract

import "regexp"

// Class and id patterns used to weigh and filter candidates. They are
// compiled once and never modified.
var (
	unlikelyCandidates = regexp.MustCompile(`(?i)-ad-|ai2html|banner|breadcrumbs|combx|comment|community|cover-wrap|disqus|extra|footer|gdpr|header|legends|menu|related|remark|replies|rss|shoutbox|sidebar|skyscraper|social|sponsor|supplemental|ad-break|agegate|pagination|pager|popup|yom-remote`)
	maybeCandidate     = regexp.MustCompile(`(?i)and|article|body|column|content|main|mathjax|shadow`)
	positiveClass      = regexp.MustCompile(`(?i)article|body|content|entry|hentry|h-entry|main|page|pagination|post|text|blog|story`)
	negativeClass      = regexp.MustCompile(`(?i)-ad-|hidden|^hid$| hid$| hid |^hid |banner|combx|comment|com-|contact|footer|gdpr|masthead|media|meta|outbrain|promo|related|scroll|share|shoutbox|sidebar|skyscraper|sponsor|shopping|tags|widget`)
	bylineClass        = regexp.MustCompile(`(?i)byline|author|dateline|writtenby|p-author`)
	shareElements      = regexp.MustCompile(`(?i)(\b|_)(share|sharedaddy)(\b|_)`)
	defaultVideos      = regexp.MustCompile(`(?i)//(www\.)?((dailymotion|youtube|youtube-nocookie|player\.vimeo|v\.qq|bilibili|live\.bilibili)\.com|(archive|upload\.wikimedia)\.org|player\.twitch\.tv)`)
)

// Text patterns.
var (
	commas         = regexp.MustCompile(`[\x{002C}\x{060C}\x{FE50}\x{FE10}\x{FE11}\x{2E41}\x{2E34}\x{2E32}\x{FF0C}]`)
	sentenceEnd    = regexp.MustCompile(`\.( |$)`)
	tokenSeparator = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	titleSeparator = regexp.MustCompile(`\s+[|\-–—»]\s+|:\s+`)
	punctuation    = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	lazyImageSrc   = regexp.MustCompile(`(?i)^\s*\S+\.(jpg|jpeg|png|webp)\S*\s*$`)
	lazyImageSet   = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)\s+\d`)
	base64DataURL  = regexp.MustCompile(`(?i)^data:\s*([^\s;,]+)\s*;\s*base64\s*,`)
	imageExtension = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)`)
)

// JSON-LD patterns.
var (
	schemaDotOrg       = regexp.MustCompile(`^https?://schema\.org/?$`)
	jsonLDArticleTypes = regexp.MustCompile(`^Article|AdvertiserContentArticle|NewsArticle|AnalysisNewsArticle|AskPublicNewsArticle|BackgroundNewsArticle|OpinionNewsArticle|ReportageNewsArticle|ReviewNewsArticle|Report|SatiricalArticle|ScholarlyArticle|MedicalScholarlyArticle|SocialMediaPosting|BlogPosting|LiveBlogPosting|DiscussionForumPosting|TechArticle|APIReference$`)
	cdataWrapper       = regexp.MustCompile(`^\s*<!\[CDATA\[|\]\]>\s*$`)
)

// Meta tag patterns.
var (
	metaProperty = regexp.MustCompile(`(?i)\s*(article|dc|dcterm|og|twitter)\s*:\s*(author|creator|description|published_time|title|site_name)\s*`)
	metaName     = regexp.MustCompile(`(?i)^\s*(?:(dc|dcterm|og|twitter|parsely|weibo:(?:article|webpage))\s*[-.:]\s*)?(author|creator|pub-date|description|title|site_name)\s*$`)
)

var unlikelyRoles = map[string]bool{
	"menu":          true,
	"menubar":       true,
	"complementary": true,
	"navigation":    true,
	"alert":         true,
	"alertdialog":   true,
	"dialog":        true,
}

// unlikelyTags are semantic boilerplate containers.
var unlikelyTags = map[string]bool{
	"nav":    true,
	"aside":  true,
	"footer": true,
	"header": true,
}

var presentationalAttrs = []string{
	"align", "background", "bgcolor", "border", "cellpadding", "cellspacing",
	"frame", "hspace", "rules", "style", "valign", "vspace",
}

var deprecatedSizeAttrElems = map[string]bool{
	"table": true,
	"th":    true,
	"td":    true,
	"hr":    true,
	"pre":   true,
}

var phrasingElems = map[string]bool{
	"abbr": true, "audio": true, "b": true, "bdo": true, "br": true,
	"button": true, "cite": true, "code": true, "data": true, "datalist": true,
	"dfn": true, "em": true, "embed": true, "i": true, "img": true,
	"input": true, "kbd": true, "label": true, "mark": true, "math": true,
	"meter": true, "noscript": true, "object": true, "output": true,
	"progress": true, "q": true, "ruby": true, "samp": true, "script": true,
	"select": true, "small": true, "span": true, "strong": true, "sub": true,
	"sup": true, "textarea": true, "time": true, "var": true, "wbr": true,
}

// divToPElems are the children that keep a div from becoming a paragraph.
var divToPElems = map[string]bool{
	"blockquote": true,
	"dl":         true,
	"div":        true,
	"img":        true,
	"ol":         true,
	"p":          true,
	"pre":        true,
	"table":      true,
	"ul":         true,
}

// alterToDivExceptions keep their tag when gathered as siblings.
var alterToDivExceptions = map[string]bool{
	"div":     true,
	"article": true,
	"section": true,
	"p":       true,
	"ol":      true,
	"ul":      true,
}

var mediaElems = map[string]bool{
	"img":     true,
	"picture": true,
	"video":   true,
	"audio":   true,
	"iframe":  true,
	"embed":   true,
	"object":  true,
	"source":  true,
	"svg":     true,
	"canvas":  true,
	"math":    true,
}

var headingElems = []string{"h1", "h2", "h3", "h4", "h5", "h6"}
