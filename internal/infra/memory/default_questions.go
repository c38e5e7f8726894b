package memory

import "resident-lockdown/internal/domain"

// DefaultLevel1Questions are the lateral-thinking riddles served in level 1.
func DefaultLevel1Questions() []domain.Question {
	return []domain.Question{
		{
			ID:          "1",
			Prompt:      "I speak without a mouth and hear without ears. I have no body, but I come alive with the wind. What am I?",
			Options:     []string{"A ghost", "An echo", "A shadow", "A thought"},
			Correct:     1,
			Explanation: "An echo speaks without a mouth and has no physical body.",
		},
		{
			ID:          "2",
			Prompt:      "A man is looking at a photograph. Someone asks, 'Whose picture is that?' He replies: 'Brothers and sisters I have none, but that man's father is my father's son.' Who is in the photograph?",
			Options:     []string{"The man himself", "His father", "His son", "His uncle"},
			Correct:     2,
			Explanation: "'My father's son' is himself, since he has no brothers. So 'that man's father is me' and the photo is of his son.",
		},
		{
			ID:          "3",
			Prompt:      "I have cities, but no houses. I have mountains, but no trees. I have water, but no fish. What am I?",
			Options:     []string{"A planet", "A map", "A painting", "A dream"},
			Correct:     1,
			Explanation: "A map shows cities, mountains and water, but none of the real things.",
		},
		{
			ID:          "4",
			Prompt:      "What number comes next? 1, 11, 21, 1211, 111221, ?",
			Options:     []string{"312211", "122211", "212221", "331221"},
			Correct:     0,
			Explanation: "Look-and-say sequence: 111221 is 'three 1s, two 2s, one 1', so 312211.",
		},
		{
			ID:          "5",
			Prompt:      "You're in a dark room with a candle, a wood stove, and a gas lamp. You only have one match. What do you light first?",
			Options:     []string{"The candle", "The wood stove", "The gas lamp", "The match"},
			Correct:     3,
			Explanation: "You must light the match first before you can light anything else!",
		},
		{
			ID:          "6",
			Prompt:      "A farmer has 17 sheep. All but 9 die. How many sheep are left?",
			Options:     []string{"8", "9", "17", "0"},
			Correct:     1,
			Explanation: "'All but 9 die' means 9 survive.",
		},
		{
			ID:          "7",
			Prompt:      "What disappears as soon as you say its name?",
			Options:     []string{"A secret", "Silence", "Darkness", "A whisper"},
			Correct:     1,
			Explanation: "The moment you say 'silence', it is broken.",
		},
		{
			ID:          "8",
			Prompt:      "If you have a bowl with six apples and you take away four, how many do you have?",
			Options:     []string{"Two", "Four", "Six", "Zero"},
			Correct:     1,
			Explanation: "You took four apples, so YOU have four apples.",
		},
		{
			ID:          "9",
			Prompt:      "A bat and a ball together cost $1.10. The bat costs $1.00 more than the ball. How much does the ball cost?",
			Options:     []string{"$0.10", "$0.05", "$0.15", "$0.01"},
			Correct:     1,
			Explanation: "If the ball is $0.05 the bat is $1.05, for a total of $1.10.",
		},
		{
			ID:          "10",
			Prompt:      "Three doctors said Robert is their brother. Robert says he has no brothers. Who is lying?",
			Options:     []string{"Robert is lying", "The doctors are lying", "Nobody is lying", "One doctor is lying"},
			Correct:     2,
			Explanation: "Nobody is lying. The three doctors are Robert's sisters!",
		},
	}
}

// DefaultLevel2Questions are the harder puzzles served to the shortlist.
func DefaultLevel2Questions() []domain.Question {
	return []domain.Question{
		{
			ID:          "101",
			Prompt:      "A clock shows 3:15. What is the angle between the hour and minute hands?",
			Options:     []string{"0°", "7.5°", "15°", "22.5°"},
			Correct:     1,
			Explanation: "The minute hand is at 90°. The hour hand has moved 7.5° past the 3, to 97.5°.",
		},
		{
			ID:          "102",
			Prompt:      "If you write all numbers from 1 to 100, how many times does the digit '9' appear?",
			Options:     []string{"10", "11", "19", "20"},
			Correct:     3,
			Explanation: "Ten times in the units place (9, 19, ..., 99) and ten times in the tens place (90-99).",
		},
		{
			ID:          "103",
			Prompt:      "A snail climbs 3 meters during the day but slides back 2 meters at night. How many days to climb a 10-meter wall?",
			Options:     []string{"10 days", "8 days", "7 days", "9 days"},
			Correct:     1,
			Explanation: "After 7 days it is at 7m. On day 8 it climbs 3m and is out before night.",
		},
		{
			ID:          "104",
			Prompt:      "You have 8 identical-looking balls. One is heavier. Using a balance scale, what is the MINIMUM number of weighings to find the heavy ball?",
			Options:     []string{"1", "2", "3", "4"},
			Correct:     1,
			Explanation: "Split 3-3-2 and weigh 3 vs 3, then weigh within the heavier group or the remaining pair.",
		},
		{
			ID:          "105",
			Prompt:      "In a room of 23 people, what is the approximate probability that two share a birthday?",
			Options:     []string{"About 10%", "About 25%", "About 50%", "About 75%"},
			Correct:     2,
			Explanation: "The birthday paradox: with 23 people the chance is about 50.7%.",
		},
	}
}
