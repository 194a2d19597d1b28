// Package seed loads the built-in therapeutic technique corpus into the
// knowledge base at startup.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Adder is the knowledge base write contract.
type Adder interface {
	Add(ctx context.Context, content string, metadata map[string]string) (string, error)
}

// technique is one seed document with its routing metadata.
type technique struct {
	content  string
	metadata map[string]string
}

var techniques = []technique{
	{
		content: "5-4-3-2-1 Grounding for Anxiety: Notice 5 things you can see, 4 things you can touch, " +
			"3 things you can hear, 2 things you can smell, 1 thing you can taste. This brings you back to " +
			"the present moment when feeling overwhelmed or having a panic attack.",
		metadata: map[string]string{"category": "anxiety", "urgency": "immediate", "duration": "2_min"},
	},
	{
		content: "Box Breathing for Panic: Inhale for 4 counts, hold for 4, exhale for 4, hold empty for 4. " +
			"Repeat 4-6 times. This activates your parasympathetic nervous system and slows your heart rate. " +
			"Use when you feel panic rising.",
		metadata: map[string]string{"category": "anxiety", "urgency": "immediate", "duration": "2_min"},
	},
	{
		content: "Gentle Morning Routine for Depression: 1) Open curtains immediately when you wake up. " +
			"2) Drink a full glass of water. 3) Do 10 gentle stretches in bed. 4) Write one tiny thing you're " +
			"grateful for. 5) Set one micro-goal like 'brush teeth'. No pressure, just gentle momentum.",
		metadata: map[string]string{"category": "depression", "time": "morning", "difficulty": "low"},
	},
	{
		content: "The 2-Minute Rule for Depression: When everything feels impossible, commit to just 2 minutes. " +
			"2 minutes of cleaning, walking, journaling, or calling a friend. Often the hardest part is starting. " +
			"You can stop after 2 minutes or keep going if you feel like it.",
		metadata: map[string]string{"category": "depression", "difficulty": "low", "duration": "2_min"},
	},
	{
		content: "Progressive Muscle Relaxation: Start with your toes - tense for 5 seconds, then release. " +
			"Move up through calves, thighs, abdomen, hands, arms, shoulders, face. Notice the contrast between " +
			"tension and relaxation. Great for bedtime anxiety.",
		metadata: map[string]string{"category": "anxiety", "time": "evening", "duration": "10_min"},
	},
	{
		content: "Stress Reset Protocol: Stop what you're doing. Take 3 deep breaths. Ask yourself: " +
			"'Is this urgent or just feels urgent?' If not truly urgent, step away for 10 minutes. Go outside, " +
			"stretch, or listen to one song. Return with fresh perspective.",
		metadata: map[string]string{"category": "stress", "urgency": "immediate", "duration": "10_min"},
	},
	{
		content: "RAIN Technique for Difficult Emotions: Recognize what you're feeling. Allow the emotion to be " +
			"there without fighting it. Investigate with kindness - where do you feel it in your body? " +
			"Non-attachment - remind yourself this feeling will pass.",
		metadata: map[string]string{"category": "mindfulness", "technique": "RAIN", "use_case": "emotional_regulation"},
	},
	{
		content: "Thought Record for Negative Spirals: Write down the negative thought. Rate how much you " +
			"believe it (1-10). List evidence for and against it. Write a more balanced thought. Rate belief in " +
			"the balanced thought. This helps break cycles of catastrophic thinking.",
		metadata: map[string]string{"category": "cognitive", "technique": "thought_record", "condition": "negative_thinking"},
	},
	{
		content: "Crisis Survival Kit: When in emotional crisis, use TIPP - Temperature (cold water on face), " +
			"Intense exercise (jumping jacks for 1 minute), Paced breathing (long exhales), Paired muscle " +
			"relaxation. These quickly change your body chemistry.",
		metadata: map[string]string{"category": "crisis", "urgency": "emergency", "technique": "TIPP"},
	},
	{
		content: "Opposite Action for Depression: When depression tells you to isolate, reach out to someone. " +
			"When it says stay in bed, get up and move your body for 5 minutes. When it says you're worthless, " +
			"do one kind thing for yourself. Act opposite to what depression wants.",
		metadata: map[string]string{"category": "depression", "technique": "opposite_action"},
	},
	{
		content: "Racing Mind Bedtime Technique: Keep a notepad by your bed. When worries come up, write them " +
			"down and tell yourself 'I'll deal with this tomorrow.' Do a body scan from toes to head, releasing " +
			"tension. If still awake after 20 minutes, get up and do a quiet activity until sleepy.",
		metadata: map[string]string{"category": "sleep", "condition": "insomnia", "time": "bedtime"},
	},
	{
		content: "The Best Friend Test: When being self-critical, ask 'What would I tell my best friend if they " +
			"were in this situation?' We're often much kinder to others than ourselves. Use that same " +
			"compassionate voice for yourself.",
		metadata: map[string]string{"category": "cognitive", "technique": "self_compassion", "condition": "self_criticism"},
	},
}

// Count returns the number of seed documents.
func Count() int { return len(techniques) }

// Load inserts the built-in techniques into the knowledge base. Individual
// failures are logged and skipped so one bad document does not block startup.
func Load(ctx context.Context, kb Adder, log *zap.Logger) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("seed cancelled: %w", err)
	}

	loaded := 0
	for i, t := range techniques {
		if _, err := kb.Add(ctx, t.content, t.metadata); err != nil {
			log.Warn("seed document failed",
				zap.Int("index", i),
				zap.String("category", t.metadata["category"]),
				zap.Error(err))
			continue
		}
		loaded++
	}

	if loaded == 0 {
		return 0, fmt.Errorf("no seed documents loaded")
	}
	return loaded, nil
}
