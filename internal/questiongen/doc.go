// Package questiongen turns authored question templates into concrete,
// validated questions.
//
// A template declares parameters, a text with {NAME} placeholders, a
// correct-answer formula and optional distractor specs. Generation runs
// four stages per question: parameters are drawn in declaration order,
// the text and visual description are rendered, the correct answer is
// evaluated, and for multiple-choice questions three distractors are
// synthesised. A validator chain then checks the result.
//
// Formulas are parsed into an AST and evaluated over a closed set of
// operators and functions. Random helpers are only reachable from
// parameter and distractor formulas, so a correct answer is a pure
// function of its parameters.
//
// Content faults never surface as errors. They are logged, counted
// through a Recorder, and degrade to a visibly marked question whose
// correct answer is "0".
package questiongen
